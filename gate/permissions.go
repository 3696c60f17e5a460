package gate

// Minor-admin permission flags. Each one unlocks a section of the
// minor-admin workspace.
const (
	PermissionJournal        = "journal"
	PermissionProductContent = "productContent"
	PermissionInventory      = "inventory"
	PermissionSupport        = "support"
	PermissionModeration     = "moderation"
	PermissionAnalytics      = "analytics"
)

// MinorPermissions is the per-user feature set of the minor-admin workspace.
type MinorPermissions struct {
	Journal        bool `json:"journal"`
	ProductContent bool `json:"productContent"`
	Inventory      bool `json:"inventory"`
	Support        bool `json:"support"`
	Moderation     bool `json:"moderation"`
	Analytics      bool `json:"analytics"`
}

// DefaultMinorPermissions grants every workspace section. User records carry
// no permission set of their own yet, so this is what most minor admins run
// with.
func DefaultMinorPermissions() MinorPermissions {
	return MinorPermissions{
		Journal:        true,
		ProductContent: true,
		Inventory:      true,
		Support:        true,
		Moderation:     true,
		Analytics:      true,
	}
}

// NormalizeMinorPermissions lays a partial set of overrides on top of the
// defaults. Flags absent from overrides keep their default value; unknown
// flag names are ignored.
func NormalizeMinorPermissions(overrides map[string]bool) MinorPermissions {
	permissions := DefaultMinorPermissions()
	for flag, granted := range overrides {
		switch flag {
		case PermissionJournal:
			permissions.Journal = granted
		case PermissionProductContent:
			permissions.ProductContent = granted
		case PermissionInventory:
			permissions.Inventory = granted
		case PermissionSupport:
			permissions.Support = granted
		case PermissionModeration:
			permissions.Moderation = granted
		case PermissionAnalytics:
			permissions.Analytics = granted
		}
	}
	return permissions
}

// Allows reports whether the named flag is granted.
func (p MinorPermissions) Allows(flag string) bool {
	switch flag {
	case PermissionJournal:
		return p.Journal
	case PermissionProductContent:
		return p.ProductContent
	case PermissionInventory:
		return p.Inventory
	case PermissionSupport:
		return p.Support
	case PermissionModeration:
		return p.Moderation
	case PermissionAnalytics:
		return p.Analytics
	default:
		return false
	}
}
