package common

const (
	EntryTypeCashIn  = "cash_in"
	EntryTypeCashOut = "cash_out"

	MemberRoleViewer = "viewer"
	MemberRoleEditor = "editor"
	// Never stored in a membership row: the implicit rank of the book's
	// owning user, above editor.
	MemberRoleOwner = "owner"

	EntryEventCreated = "entry.created"
	EntryEventUpdated = "entry.updated"
	EntryEventDeleted = "entry.deleted"

	AttachmentKindUploaded = "uploaded"
	AttachmentKindLinked   = "linked"

	DefaultPaymentMode = "Cash"
	DefaultCategory    = "Uncategorized"

	// Normalized storage forms for entry date and time.
	DateFormat = "2006-01-02"
	TimeFormat = "15:04:05"

	// Human display forms used by the CSV interchange format.
	DisplayDateFormat = "02 January 2006"
	DisplayTimeFormat = "3:04 PM"

	// Membership rows are created before the invitee has an account.
	// Until the invite email authenticates, user_id carries this sentinel.
	SentinelUserID int64 = 0
)
