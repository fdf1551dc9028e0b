package router

import "github.com/mmcdole/grimoire/internal/auth"

// Guard decides whether user may enter route. It returns the path to
// redirect to, or "" to proceed.
func Guard(route Route, user *auth.User) string {
	if route.RequiresAuth && user == nil {
		return LoginPath
	}
	if route.Role != "" && (user == nil || user.Role != route.Role) {
		return HomePath
	}
	return ""
}
