package access

// Route paths shared by the web app and the guard.
const (
	RootPath          = "/"
	HomePath          = "/home"
	LoginPath         = "/login"
	DashboardPath     = "/dashboard"
	AnnouncementsPath = "/dashboard/announcements"
	QuizzesPath       = "/dashboard/quizzes"
)

// routes assigns exactly one rule per route.
var routes = map[string]Rule{
	HomePath:          {Policy: PublicOnly},
	LoginPath:         {Policy: PublicOnly},
	DashboardPath:     {Policy: Protected, RedirectTarget: LoginPath},
	AnnouncementsPath: {Policy: Protected, RedirectTarget: LoginPath},
	QuizzesPath:       {Policy: Protected, RedirectTarget: LoginPath},
}

// RuleFor returns the rule declared for path. ok is false for the root path
// (handled by RootRedirect) and for unmatched paths (redirected to root).
func RuleFor(path string) (Rule, bool) {
	rule, ok := routes[path]
	return rule, ok
}
