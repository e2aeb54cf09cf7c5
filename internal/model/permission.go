package model

// Permission represents a string code for a specific admin action.
type Permission string

const (
	// PermissionTestimonialsRead allows viewing every testimonial regardless of status.
	PermissionTestimonialsRead Permission = "testimonials:read"

	// PermissionTestimonialsModerate allows approving, rejecting, featuring and deleting testimonials.
	PermissionTestimonialsModerate Permission = "testimonials:moderate"

	// PermissionReviewLinksWrite allows generating and deactivating review links.
	PermissionReviewLinksWrite Permission = "review_links:write"

	// PermissionContactsRead allows viewing contact form submissions.
	PermissionContactsRead Permission = "contacts:read"

	// PermissionContactsWrite allows updating contact submission status and notes.
	PermissionContactsWrite Permission = "contacts:write"

	// PermissionBookingsRead allows viewing bookings and RSVPs.
	PermissionBookingsRead Permission = "bookings:read"

	// PermissionBookingsWrite allows changing booking status.
	PermissionBookingsWrite Permission = "bookings:write"

	// PermissionContentWrite allows editing classes, instructors, resources, gallery and playlists.
	PermissionContentWrite Permission = "content:write"

	// PermissionMediaUpload allows uploading gallery and instructor images.
	PermissionMediaUpload Permission = "media:upload"

	// PermissionIntegrationsSync allows triggering Facebook/Instagram/Google/Spotify syncs.
	PermissionIntegrationsSync Permission = "integrations:sync"

	PermissionSettingsRead  Permission = "settings:read"
	PermissionSettingsWrite Permission = "settings:write"

	// PermissionStaffManage allows managing staff accounts and roles.
	PermissionStaffManage Permission = "staff:manage"
)

// AllPermissions lists every permission code; used to seed the owner role.
var AllPermissions = []Permission{
	PermissionTestimonialsRead,
	PermissionTestimonialsModerate,
	PermissionReviewLinksWrite,
	PermissionContactsRead,
	PermissionContactsWrite,
	PermissionBookingsRead,
	PermissionBookingsWrite,
	PermissionContentWrite,
	PermissionMediaUpload,
	PermissionIntegrationsSync,
	PermissionSettingsRead,
	PermissionSettingsWrite,
	PermissionStaffManage,
}
