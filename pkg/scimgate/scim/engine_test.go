package scim

import (
	"fmt"
	"testing"

	"github.com/tkoster/scimgate/pkg/scimgate/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// sequentialIDs returns a deterministic IDGenerator for tests.
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func setupTestEngine(t *testing.T) *Engine {
	return NewEngine(NewGormUserStore(setupTestDB(t)), sequentialIDs())
}

func TestCreateAssignsFreshID(t *testing.T) {
	e := setupTestEngine(t)

	user, created, err := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	if err != nil {
		t.Fatalf("CreateOrReactivate failed: %v", err)
	}

	if !created {
		t.Error("Expected created flag for a fresh userName")
	}
	if user.ScimID == "" {
		t.Error("Expected a non-empty scim_id")
	}
	if !user.Active {
		t.Error("Expected active true on creation")
	}
}

func TestCreateRejectsBlankUserName(t *testing.T) {
	e := setupTestEngine(t)

	for _, userName := range []string{"", "   "} {
		_, _, err := e.CreateOrReactivate(&UserInput{UserName: userName})
		if err != ErrUserNameRequired {
			t.Errorf("Expected ErrUserNameRequired for %q, got %v", userName, err)
		}
	}
}

func TestCreateReactivatesExistingUser(t *testing.T) {
	e := setupTestEngine(t)

	first, _, err := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	if err != nil {
		t.Fatalf("CreateOrReactivate failed: %v", err)
	}

	// Deactivate, then create again with the same userName.
	_, err = e.Patch(first.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	second, created, err := e.CreateOrReactivate(&UserInput{
		UserName: "alice",
		Name:     &Name{GivenName: strPtr("Alice")},
	})
	if err != nil {
		t.Fatalf("CreateOrReactivate failed: %v", err)
	}

	if created {
		t.Error("Expected updated, not created, for an existing userName")
	}
	if second.ScimID != first.ScimID {
		t.Errorf("Expected identifier %s preserved, got %s", first.ScimID, second.ScimID)
	}
	if !second.Active {
		t.Error("Expected reactivation to force active true")
	}
	if second.GivenName == nil || *second.GivenName != "Alice" {
		t.Errorf("Expected merged givenName Alice, got %v", second.GivenName)
	}
}

func TestCreateIsIdempotent(t *testing.T) {
	e := setupTestEngine(t)

	first, _, err := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	if err != nil {
		t.Fatalf("CreateOrReactivate failed: %v", err)
	}

	second, created, err := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	if err != nil {
		t.Fatalf("CreateOrReactivate failed: %v", err)
	}

	if created {
		t.Error("Expected second call to report updated")
	}
	if second.ScimID != first.ScimID {
		t.Errorf("Expected same identifier both times, got %s and %s", first.ScimID, second.ScimID)
	}

	all, err := e.Query("")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected one persisted record per userName, got %d", len(all))
	}
}

func TestUpdateResolvesByBodyUserName(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	bob, _, _ := e.CreateOrReactivate(&UserInput{UserName: "bob"})

	// Addressed at alice's record, but the body carries bob's userName:
	// bob's record is the one mutated.
	updated, created, err := e.UpdateByID(alice.ScimID, &UserInput{
		UserName: "bob",
		Name:     &Name{GivenName: strPtr("Robert")},
	})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	if created {
		t.Error("Expected update of existing record")
	}
	if updated.ScimID != bob.ScimID {
		t.Errorf("Expected bob's record %s mutated, got %s", bob.ScimID, updated.ScimID)
	}

	storedAlice, err := e.GetByScimID(alice.ScimID)
	if err != nil {
		t.Fatalf("GetByScimID failed: %v", err)
	}
	if storedAlice.GivenName != nil {
		t.Error("Expected the path-addressed record to be untouched")
	}
}

func TestUpdateCreatesWhenUserNameUnknown(t *testing.T) {
	e := setupTestEngine(t)

	user, created, err := e.UpdateByID("no-such-id", &UserInput{UserName: "carol"})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	if !created {
		t.Error("Expected a fresh record for an unknown userName")
	}
	if user.ScimID == "" || user.ScimID == "no-such-id" {
		t.Errorf("Expected a freshly generated identifier, got %q", user.ScimID)
	}
}

func TestUpdateDoesNotForceActive(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	_, err := e.Patch(alice.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	// Unlike create, update leaves an inactive record inactive when the
	// input does not carry active.
	updated, _, err := e.UpdateByID(alice.ScimID, &UserInput{UserName: "alice"})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}
	if updated.Active {
		t.Error("Expected update to preserve inactive state")
	}
}

func TestQueryReturnsActiveUsersOnly(t *testing.T) {
	e := setupTestEngine(t)

	e.CreateOrReactivate(&UserInput{UserName: "alice"})
	bob, _, _ := e.CreateOrReactivate(&UserInput{UserName: "bob"})
	e.Patch(bob.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})

	users, err := e.Query("")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(users) != 1 {
		t.Fatalf("Expected 1 active user, got %d", len(users))
	}
	if users[0].UserName != "alice" {
		t.Errorf("Expected alice, got %s", users[0].UserName)
	}
}

func TestQueryByUserNameFilter(t *testing.T) {
	e := setupTestEngine(t)

	e.CreateOrReactivate(&UserInput{UserName: "alice"})
	e.CreateOrReactivate(&UserInput{UserName: "bob"})

	users, err := e.Query(`userName eq "alice"`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	if users[0].UserName != "alice" {
		t.Errorf("Expected alice, got %s", users[0].UserName)
	}
}

func TestQueryByExternalIDFilter(t *testing.T) {
	e := setupTestEngine(t)

	e.CreateOrReactivate(&UserInput{UserName: "alice", ExternalID: strPtr("ext-1")})

	users, err := e.Query(`externalId eq "ext-1"`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	if users[0].UserName != "alice" {
		t.Errorf("Expected alice, got %s", users[0].UserName)
	}
}

func TestQueryFilterExcludesInactiveMatch(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	e.Patch(alice.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})

	users, err := e.Query(`userName eq "alice"`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty result for an inactive match, got %d", len(users))
	}
}

func TestQueryFilterAbsentMatch(t *testing.T) {
	e := setupTestEngine(t)

	users, err := e.Query(`userName eq "nobody"`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty result, got %d", len(users))
	}
}

func TestQueryUnrecognizedFilterFallsThrough(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})
	e.Patch(alice.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})

	// With only inactive records, the fail-open fallback to the active
	// listing yields the same empty result as a recognized miss.
	users, err := e.Query(`displayName eq "x"`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty result, got %d", len(users))
	}
}

func TestPatchDeactivateAndReactivate(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})

	patched, err := e.Patch(alice.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if patched.Active {
		t.Error("Expected patch to deactivate the record")
	}

	users, _ := e.Query("")
	if len(users) != 0 {
		t.Errorf("Expected deactivated record excluded from listing, got %d", len(users))
	}

	patched, err = e.Patch(alice.ScimID, []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": true}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if !patched.Active {
		t.Error("Expected patch to reactivate the record")
	}

	users, _ = e.Query("")
	if len(users) != 1 {
		t.Errorf("Expected reactivated record back in listing, got %d", len(users))
	}
}

func TestPatchStringBooleanValue(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})

	patched, err := e.Patch(alice.ScimID, []PatchOperation{
		{Op: "Replace", Value: map[string]interface{}{"active": "False"}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if patched.Active {
		t.Error("Expected string-form false to deactivate the record")
	}
}

func TestPatchIgnoresUnsupportedOperations(t *testing.T) {
	e := setupTestEngine(t)

	alice, _, _ := e.CreateOrReactivate(&UserInput{UserName: "alice"})

	patched, err := e.Patch(alice.ScimID, []PatchOperation{
		{Op: "add", Value: map[string]interface{}{"active": false}},
		{Op: "replace", Value: "not-a-map"},
		{Op: "replace", Value: map[string]interface{}{"displayName": "Alice"}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if !patched.Active {
		t.Error("Expected unsupported operations to be ignored")
	}
}

func TestPatchUnknownIDReportsNotFound(t *testing.T) {
	e := setupTestEngine(t)

	patched, err := e.Patch("no-such-id", []PatchOperation{
		{Op: "replace", Value: map[string]interface{}{"active": false}},
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if patched != nil {
		t.Error("Expected nil record for an unknown identifier")
	}
}
