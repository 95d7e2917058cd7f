package access

import "testing"

func TestAllowed(t *testing.T) {
	admin := &Caller{UserID: 1, Role: RoleAdmin}
	editor := &Caller{UserID: 2, Role: RoleEditor}
	viewer := &Caller{UserID: 3, Role: RoleViewer}

	tests := []struct {
		name   string
		caller *Caller
		op     Operation
		res    Resource
		want   bool
	}{
		{"anonymous read", nil, OpRead, ResourceGame, false},
		{"viewer reads games", viewer, OpRead, ResourceGame, true},
		{"viewer cannot create games", viewer, OpCreate, ResourceGame, false},
		{"editor cannot delete countries", editor, OpDelete, ResourceCountry, false},
		{"admin deletes countries", admin, OpDelete, ResourceCountry, true},
		{"editor creates predictions", editor, OpCreate, ResourcePrediction, true},
		{"viewer cannot create predictions", viewer, OpCreate, ResourcePrediction, false},
		{"editor cannot publish programs", editor, OpBulk, ResourceProgram, false},
		{"editor cannot create programs", editor, OpCreate, ResourceProgram, false},
		{"admin publishes programs", admin, OpBulk, ResourceProgram, true},
		{"editor cannot mark results official", editor, OpBulk, ResourceResult, false},
		{"viewer cannot list users", viewer, OpRead, ResourceUser, false},
		{"editor cannot list users", editor, OpRead, ResourceUser, false},
		{"admin lists users", admin, OpRead, ResourceUser, true},
		{"unknown resource", admin, OpRead, Resource("nope"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.caller, tt.op, tt.res); got != tt.want {
				t.Errorf("Allowed(%v, %s, %s) = %v, want %v", tt.caller, tt.op, tt.res, got, tt.want)
			}
		})
	}
}

func TestCanModifyOwned(t *testing.T) {
	owner := uint(7)
	other := uint(8)

	tests := []struct {
		name   string
		caller *Caller
		owner  *uint
		want   bool
	}{
		{"author edits own", &Caller{UserID: 7, Role: RoleEditor}, &owner, true},
		{"editor edits someone else's", &Caller{UserID: 7, Role: RoleEditor}, &other, false},
		{"editor edits ownerless", &Caller{UserID: 7, Role: RoleEditor}, nil, false},
		{"admin edits anything", &Caller{UserID: 1, Role: RoleAdmin}, &other, true},
		{"admin edits ownerless", &Caller{UserID: 1, Role: RoleAdmin}, nil, true},
		{"nil caller", nil, &owner, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyOwned(tt.caller, tt.owner); got != tt.want {
				t.Errorf("CanModifyOwned = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleEditor, RoleViewer} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("player").Valid() {
		t.Error("player should not be a valid role")
	}
}
