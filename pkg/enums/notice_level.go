package enums

// NoticeLevel classifies the user-facing notices mutating cart operations
// emit alongside their result.
type NoticeLevel string

const (
	NoticeLevelSuccess NoticeLevel = "success"
	NoticeLevelWarning NoticeLevel = "warning"
	NoticeLevelError   NoticeLevel = "error"
)

// String implements fmt.Stringer.
func (n NoticeLevel) String() string {
	return string(n)
}
