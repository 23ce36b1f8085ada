package board

import "testing"

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		action Action
		want   bool
	}{
		{"owner draws", RoleOwner, ActionDraw, true},
		{"owner clears", RoleOwner, ActionClear, true},
		{"owner manages roles", RoleOwner, ActionManageRoles, true},
		{"owner chats", RoleOwner, ActionChat, true},
		{"owner moves cursor", RoleOwner, ActionCursorMove, true},

		{"edit draws", RoleEdit, ActionDraw, true},
		{"edit clears", RoleEdit, ActionClear, true},
		{"edit cannot manage roles", RoleEdit, ActionManageRoles, false},
		{"edit chats", RoleEdit, ActionChat, true},

		{"view cannot draw", RoleView, ActionDraw, false},
		{"view cannot clear", RoleView, ActionClear, false},
		{"view cannot manage roles", RoleView, ActionManageRoles, false},
		{"view chats", RoleView, ActionChat, true},
		{"view moves cursor", RoleView, ActionCursorMove, true},

		{"empty role does nothing", Role(""), ActionChat, false},
		{"unknown action refused", RoleOwner, Action("shutdown-server"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPerform(tt.role, tt.action); got != tt.want {
				t.Errorf("CanPerform(%q, %q) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"owner", "edit", "view"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", valid)
		}
	}
	for _, invalid := range []string{"", "admin", "Owner", "editor"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) accepted an invalid role", invalid)
		}
	}
}

func TestDefaultRole(t *testing.T) {
	if got := KindCollaborative.DefaultRole(); got != RoleEdit {
		t.Errorf("collaborative default = %q, want %q", got, RoleEdit)
	}
	if got := KindPresentation.DefaultRole(); got != RoleView {
		t.Errorf("presentation default = %q, want %q", got, RoleView)
	}
}
