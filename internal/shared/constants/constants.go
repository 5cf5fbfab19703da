package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID       = "user_id"
	ContextKeyUserRole     = "user_role"
	ContextKeySiteID       = "site_id"
	ContextKeySubscription = "subscription"

	// Roles
	RoleAdmin  = "admin"
	RoleTenant = "tenant"

	// Database table names
	TableSites               = "sites"
	TableSubscriptions       = "subscriptions"
	TableSubscriptionReqs    = "subscription_requests"
	TableNotificationRecords = "notification_records"

	// Access gate reason codes, returned to callers on deny
	GateReasonNoSubscription = "no_subscription"
	GateReasonExpired        = "subscription_expired"
	GateReasonUnauthorized   = "unauthorized"

	// Redirect surfaces for denied tenants
	RedirectOnboarding   = "/onboarding"
	RedirectSubscription = "/subscription"
)
