package model

// 作者类型。评论和点赞的作者要么是学生要么是社团，
// authorId 指向对应档案表的主键，kind 决定查哪张表。
const (
	AuthorKindStudent     = "Student"
	AuthorKindAssociation = "Association"
)

// AuthorRef 作者引用 (id + kind)，由会话解析得出，从不接受客户端直传
type AuthorRef struct {
	ID   string `json:"authorId"`
	Kind string `json:"authorKind"`
}

// AuthorDisplay 作者展示信息。作者档案已删除时返回占位信息而不是报错。
type AuthorDisplay struct {
	ID        string `json:"authorId"`
	Kind      string `json:"authorKind"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// DeletedAuthorPlaceholder 档案不存在时的兜底展示
func DeletedAuthorPlaceholder(ref AuthorRef) AuthorDisplay {
	return AuthorDisplay{
		ID:      ref.ID,
		Kind:    ref.Kind,
		Name:    "deleted user",
		Deleted: true,
	}
}
