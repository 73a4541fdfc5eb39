package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 账号模块错误 100xx
	ErrUserExists       = 10001
	ErrUserNotFound     = 10002
	ErrAuthFailed       = 10003
	ErrTokenInvalid     = 10004
	ErrNoPermission     = 10005
	ErrAuthorUnresolved = 10006 // 会话无法解析出学生/社团作者身份

	// 公告模块错误 200xx
	ErrAnnouncementNotFound = 20001
	ErrCommentNotFound      = 20002
	ErrParentMismatch       = 20003 // 父评论不存在或属于其他公告
	ErrAlreadyLiked         = 20004

	// 活动模块错误 300xx
	ErrEventNotFound     = 30001
	ErrAlreadyRegistered = 30002
	ErrEventFull         = 30003

	// 社团模块错误 400xx
	ErrAssociationNotFound = 40001
	ErrStudentNotFound     = 40002
	ErrAlreadyFollowing    = 40003

	// 举报模块错误 600xx
	ErrReportNotFound = 60001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
