package onboarding

// Grant names a resource and the permission string to assign on it.
type Grant struct {
	ResourceName string `json:"resource_name" validate:"required"`
	Permissions  string `json:"permissions" validate:"required"`
}
