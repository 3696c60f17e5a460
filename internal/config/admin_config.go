package config

// AdminConfig exposes the privileged identities the storefront ships with.
// The reserved main-admin email and the major-admin bypass credentials were
// hard coded in earlier builds; they are environment driven now, but the
// bypass itself is still a documented security smell rather than a feature.
type AdminConfig interface {
	GetReservedMainAdminEmail() string
	GetMajorAdminEmail() string
	GetMajorAdminPassword() string
}

type Admin struct{}

var _ AdminConfig = Admin{}

func (Admin) GetReservedMainAdminEmail() string {
	return GetEnv("RESERVED_MAIN_ADMIN_EMAIL", "divinewos@gmail.com")
}

func (Admin) GetMajorAdminEmail() string {
	return GetEnv("MAJOR_ADMIN_EMAIL", "major.admin@devunion.tech")
}

func (Admin) GetMajorAdminPassword() string {
	return GetEnv("MAJOR_ADMIN_PASSWORD", "")
}
