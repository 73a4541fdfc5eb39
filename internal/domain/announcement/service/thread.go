package service

import (
	"time"

	"connectcampus/internal/domain/announcement/model"
	userModel "connectcampus/internal/domain/user/model"
	"connectcampus/pkg/logger"
)

// CommentNode 楼层树节点。Replies 里的顺序和顶层顺序都按发布时间升序。
type CommentNode struct {
	ID              string                  `json:"id"`
	AnnouncementID  string                  `json:"announcementId"`
	ParentCommentID *string                 `json:"parentCommentId"`
	Content         string                  `json:"content"`
	Author          userModel.AuthorDisplay `json:"author"`
	CreatedAt       time.Time               `json:"createdAt"`
	EditedAt        *time.Time              `json:"editedAt,omitempty"`
	Replies         []*CommentNode          `json:"replies"`
}

func newCommentNode(c *model.Comment) *CommentNode {
	return &CommentNode{
		ID:              c.ID,
		AnnouncementID:  c.AnnouncementID,
		ParentCommentID: c.ParentCommentID,
		Content:         c.Content,
		Author: userModel.AuthorDisplay{
			ID:   c.AuthorID,
			Kind: c.AuthorKind,
		},
		CreatedAt: c.CreatedAt,
		EditedAt:  c.EditedAt,
		Replies:   []*CommentNode{},
	}
}

// BuildThread 把按时间升序的平铺评论组装成楼层树，单次按父ID归组，O(n)。
// 父评论缺失的孤儿（连同其整个子树）不进入结果；历史脏数据里的
// 环也因此够不到顶层，自然被排除。
func BuildThread(comments []model.Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = newCommentNode(&comments[i])
	}

	roots := []*CommentNode{}
	orphans := 0
	for i := range comments {
		c := &comments[i]
		node := nodes[c.ID]

		if c.ParentCommentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := nodes[*c.ParentCommentID]
		if !ok || parent == node {
			orphans++
			continue
		}
		// 输入有序，逐个 append 即可保持每层的时间顺序
		parent.Replies = append(parent.Replies, node)
	}

	if orphans > 0 {
		logger.Sugar.Warnf("Thread build skipped %d orphan comment(s) with missing parents", orphans)
	}

	return roots
}

// collectAuthorRefs 收集平铺评论里的作者引用，用于批量查展示信息
func collectAuthorRefs(comments []model.Comment) []userModel.AuthorRef {
	refs := make([]userModel.AuthorRef, 0, len(comments))
	for _, c := range comments {
		refs = append(refs, userModel.AuthorRef{ID: c.AuthorID, Kind: c.AuthorKind})
	}
	return refs
}

// applyAuthorDisplays 把批量查到的作者展示信息回填到整棵树
func applyAuthorDisplays(nodes []*CommentNode, displays map[userModel.AuthorRef]userModel.AuthorDisplay) {
	for _, node := range nodes {
		ref := userModel.AuthorRef{ID: node.Author.ID, Kind: node.Author.Kind}
		if display, ok := displays[ref]; ok {
			node.Author = display
		}
		applyAuthorDisplays(node.Replies, displays)
	}
}

// --- 缓存树的就地修补 ---

func findThreadNode(nodes []*CommentNode, id string) *CommentNode {
	for _, node := range nodes {
		if node.ID == id {
			return node
		}
		if found := findThreadNode(node.Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// insertThreadNode 把新评论挂到父节点末尾（顶层评论追加到顶层末尾，
// 与整树重建的时间序一致）。父节点不在树里时返回 false，调用方应当失效重建。
func insertThreadNode(roots []*CommentNode, node *CommentNode) ([]*CommentNode, bool) {
	if node.ParentCommentID == nil {
		return append(roots, node), true
	}
	parent := findThreadNode(roots, *node.ParentCommentID)
	if parent == nil {
		return roots, false
	}
	parent.Replies = append(parent.Replies, node)
	return roots, true
}

// updateThreadNode 就地更新评论内容
func updateThreadNode(roots []*CommentNode, id, content string, editedAt *time.Time) bool {
	node := findThreadNode(roots, id)
	if node == nil {
		return false
	}
	node.Content = content
	node.EditedAt = editedAt
	return true
}

// removeThreadNode 摘除节点及其整个子树，返回摘除的节点数
func removeThreadNode(nodes []*CommentNode, id string) ([]*CommentNode, int, bool) {
	for i, node := range nodes {
		if node.ID == id {
			removed := subtreeSize(node)
			return append(nodes[:i], nodes[i+1:]...), removed, true
		}
		if replies, removed, ok := removeThreadNode(node.Replies, id); ok {
			node.Replies = replies
			return nodes, removed, true
		}
	}
	return nodes, 0, false
}

func subtreeSize(node *CommentNode) int {
	size := 1
	for _, reply := range node.Replies {
		size += subtreeSize(reply)
	}
	return size
}

// collectSubtreeIDs 在平铺评论上求某条评论的整个子树（含自身）的ID集合。
// 自扩展 BFS，上界兜底防脏数据成环。
func collectSubtreeIDs(comments []model.Comment, rootID string) []string {
	children := make(map[string][]string, len(comments))
	for _, c := range comments {
		if c.ParentCommentID != nil {
			children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c.ID)
		}
	}

	ids := []string{rootID}
	for i := 0; i < len(ids) && len(ids) <= len(comments)+1; i++ {
		ids = append(ids, children[ids[i]]...)
	}
	return ids
}
