package auth

// Action is a protected operation guarded by a role allow-list.
type Action string

// Protected actions.
const (
	ActionVehicleUpdate    Action = "vehicle:update"
	ActionJobUpdate        Action = "job:update"
	ActionAlertAcknowledge Action = "alert:acknowledge"
)

// Allowed reports whether role may perform action. Unknown actions and
// unknown roles are denied.
func Allowed(role Role, action Action) bool {
	switch action {
	case ActionVehicleUpdate, ActionJobUpdate:
		switch role {
		case RoleAdmin, RoleDriver:
			return true
		case RoleViewer:
			return false
		}
	case ActionAlertAcknowledge:
		switch role {
		case RoleAdmin:
			return true
		case RoleDriver, RoleViewer:
			return false
		}
	}
	return false
}

// Authorize returns ErrForbidden when user may not perform action.
func Authorize(user *User, action Action) error {
	if user == nil || !Allowed(user.Role, action) {
		return ErrForbidden
	}
	return nil
}
