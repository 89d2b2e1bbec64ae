// internal/app/system/limits/limits.go
package limits

// Request and field size limits for the API.
// These limits help prevent memory exhaustion from oversized requests and
// keep stored list entries within the document schema's attribute sizes.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxUploadSize is the maximum size for uploaded files (resumes,
	// transcripts). Multipart parsing uses this as its memory ceiling.
	MaxUploadSize = 10 << 20 // 10 MB

	// MaxSkillEntryLen caps each entry of a criteria skills list.
	MaxSkillEntryLen = 20

	// MaxCourseEntryLen caps each entry of a criteria courses list.
	MaxCourseEntryLen = 40
)
