package menu

import "pizzeria-service/internal/model"

// Session carries the acting user's profile and resolved tenant key through
// a single request. It is created after authentication and passed explicitly
// to every operation; nothing in this package holds ambient user state.
type Session struct {
	User   *model.User
	Tenant string
}

// IsMaster reports whether the session acts as the master tenant.
func (s *Session) IsMaster() bool {
	return s.Tenant == model.MasterTenant
}

// CanManageMenu reports whether this session may mutate menu records.
func (s *Session) CanManageMenu() bool {
	return s.User != nil && s.User.CanManageMenu()
}
