package configuration

type AuthRule struct {
	Path        string
	Method      string // empty means all methods
	RequireAuth bool   // true means require auth, false means exclude from auth
}

var AuthRulePrefixMatchPath = []AuthRule{
	{Path: "/api/v1/auth", Method: "*", RequireAuth: false},
	{Path: "/api/v1/users/register", Method: "*", RequireAuth: false},
	// The live strength meter runs on the signup form, before any session exists.
	{Path: "/api/v1/users/password/evaluate", Method: "POST", RequireAuth: false},
	{Path: "/api/v1/users", Method: "*", RequireAuth: true},
}

// AudienceRule maps a route to the token audiences allowed to reach it.
// Routes without a rule require the full access token audience.
type AudienceRule struct {
	PathPrefix       string
	PathSuffix       string
	Method           string
	AllowedAudiences []string
}

// AuthAudienceRules lists routes reachable with the restricted MFA login
// token. The restricted token exists so a user who passed the password
// step can finish (or first set up) MFA, and nothing else.
var AuthAudienceRules = []AudienceRule{
	{
		PathPrefix:       "/api/v1/users/mfa",
		PathSuffix:       "",
		Method:           "*",
		AllowedAudiences: []string{AudienceAccessToken, AudienceMFALogin},
	},
}
