package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// PermissionAction is a fine-grained right within a module.
type PermissionAction string

const (
	ActionView    PermissionAction = "view"
	ActionCreate  PermissionAction = "create"
	ActionEdit    PermissionAction = "edit"
	ActionDelete  PermissionAction = "delete"
	ActionApprove PermissionAction = "approve"
)

// Permission grants a set of actions on a single module.
type Permission struct {
	Module  string             `json:"module"`
	Actions []PermissionAction `json:"actions"`
}

// PermissionList holds at most one entry per module.
type PermissionList []Permission

// Allows is the access decision rule. No entry for the module → false.
// Empty action → module presence is enough (coarse "can see this module"
// checks). Otherwise the action must be listed in the entry.
func (pl PermissionList) Allows(module string, action PermissionAction) bool {
	for _, p := range pl {
		if p.Module != module {
			continue
		}
		if action == "" {
			return true
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
		return false
	}
	return false
}

// Value / Scan let gorm persist the list as a JSONB column.
func (pl PermissionList) Value() (driver.Value, error) {
	return json.Marshal(pl)
}

func (pl *PermissionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*pl = nil
		return nil
	case []byte:
		return json.Unmarshal(v, pl)
	case string:
		return json.Unmarshal([]byte(v), pl)
	}
	return errors.New("PermissionList: unsupported column type")
}

var allActions = []PermissionAction{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionApprove}

var allModules = []string{
	"dashboard", "comandas", "buffet", "garcom", "caixa",
	"porteiro", "estoque", "relatorios", "cancelamentos", "admin",
}

// DefaultPermissions returns the initial grants for a role. Applied at user
// creation and whenever the role changes on update.
func DefaultPermissions(role string) PermissionList {
	switch role {
	case RoleAdmin:
		full := make(PermissionList, 0, len(allModules))
		for _, m := range allModules {
			full = append(full, Permission{Module: m, Actions: append([]PermissionAction(nil), allActions...)})
		}
		return full
	case RoleCaixa:
		return PermissionList{
			{Module: "dashboard", Actions: []PermissionAction{ActionView}},
			{Module: "comandas", Actions: []PermissionAction{ActionView}},
			{Module: "caixa", Actions: []PermissionAction{ActionView, ActionCreate, ActionEdit}},
			{Module: "relatorios", Actions: []PermissionAction{ActionView}},
		}
	case RoleGarcom:
		return PermissionList{
			{Module: "dashboard", Actions: []PermissionAction{ActionView}},
			{Module: "comandas", Actions: []PermissionAction{ActionView, ActionCreate}},
			{Module: "garcom", Actions: []PermissionAction{ActionView, ActionCreate}},
		}
	default:
		// funcionario and any unmapped value get the most restricted set
		return PermissionList{
			{Module: "dashboard", Actions: []PermissionAction{ActionView}},
			{Module: "buffet", Actions: []PermissionAction{ActionView, ActionCreate}},
			{Module: "porteiro", Actions: []PermissionAction{ActionView}},
			{Module: "estoque", Actions: []PermissionAction{ActionView, ActionCreate}},
		}
	}
}
