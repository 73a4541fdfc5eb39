package service

import (
	"testing"
	"time"

	"connectcampus/internal/domain/announcement/model"
	baseModel "connectcampus/pkg/model"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func makeComment(id string, parentID *string, createdAt time.Time) model.Comment {
	return model.Comment{
		BaseModel: baseModel.BaseModel{
			ID:        id,
			CreatedAt: createdAt,
		},
		AnnouncementID:  "ann-1",
		ParentCommentID: parentID,
		AuthorID:        "author-" + id,
		AuthorKind:      "Student",
		Content:         "content of " + id,
	}
}

func TestBuildThread(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Flat list becomes nested tree", func(t *testing.T) {
		// c1 ── c2 ── c4
		//   └── c3
		// c5 (顶层)
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("c2", strPtr("c1"), base.Add(1*time.Minute)),
			makeComment("c3", strPtr("c1"), base.Add(2*time.Minute)),
			makeComment("c4", strPtr("c2"), base.Add(3*time.Minute)),
			makeComment("c5", nil, base.Add(4*time.Minute)),
		}

		roots := BuildThread(comments)

		assert.Len(t, roots, 2)
		assert.Equal(t, "c1", roots[0].ID)
		assert.Equal(t, "c5", roots[1].ID)

		assert.Len(t, roots[0].Replies, 2)
		assert.Equal(t, "c2", roots[0].Replies[0].ID)
		assert.Equal(t, "c3", roots[0].Replies[1].ID)

		assert.Len(t, roots[0].Replies[0].Replies, 1)
		assert.Equal(t, "c4", roots[0].Replies[0].Replies[0].ID)

		assert.Empty(t, roots[1].Replies)
	})

	t.Run("Chronological order preserved at every level", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("r1", nil, base),
			makeComment("r2", nil, base.Add(1*time.Minute)),
			makeComment("a", strPtr("r1"), base.Add(2*time.Minute)),
			makeComment("b", strPtr("r1"), base.Add(3*time.Minute)),
			makeComment("c", strPtr("r1"), base.Add(4*time.Minute)),
			makeComment("r3", nil, base.Add(5*time.Minute)),
		}

		roots := BuildThread(comments)

		assert.Equal(t, []string{"r1", "r2", "r3"}, idsOf(roots))
		assert.Equal(t, []string{"a", "b", "c"}, idsOf(roots[0].Replies))
	})

	t.Run("Rebuilding from the same input yields an identical tree", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("c2", strPtr("c1"), base.Add(1*time.Minute)),
			makeComment("c3", strPtr("c1"), base.Add(2*time.Minute)),
			makeComment("c4", strPtr("c2"), base.Add(3*time.Minute)),
			makeComment("c5", nil, base.Add(4*time.Minute)),
		}

		first := BuildThread(comments)
		second := BuildThread(comments)

		assert.Equal(t, first, second)
		// 没有节点丢失或翻倍
		assert.Equal(t, len(comments), subtreeSize(first[0])+subtreeSize(first[1]))
		assert.Equal(t, len(comments), subtreeSize(second[0])+subtreeSize(second[1]))
	})

	t.Run("Orphan comment excluded", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("ghost", strPtr("missing-parent"), base.Add(1*time.Minute)),
		}

		roots := BuildThread(comments)

		assert.Len(t, roots, 1)
		assert.Equal(t, "c1", roots[0].ID)
	})

	t.Run("Orphan subtree excluded entirely", func(t *testing.T) {
		// orphan 的父不存在，orphan 的孩子也不应出现在结果里
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("orphan", strPtr("missing"), base.Add(1*time.Minute)),
			makeComment("child-of-orphan", strPtr("orphan"), base.Add(2*time.Minute)),
		}

		roots := BuildThread(comments)

		assert.Len(t, roots, 1)
		assert.Equal(t, "c1", roots[0].ID)
		assert.Empty(t, roots[0].Replies)
	})

	t.Run("Self-referencing comment excluded", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("loop", strPtr("loop"), base.Add(1*time.Minute)),
		}

		roots := BuildThread(comments)

		assert.Len(t, roots, 1)
		assert.Equal(t, "c1", roots[0].ID)
	})

	t.Run("Cyclic legacy data unreachable from roots", func(t *testing.T) {
		// a.parent=b, b.parent=a 互相指，两条都够不到顶层
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("a", strPtr("b"), base.Add(1*time.Minute)),
			makeComment("b", strPtr("a"), base.Add(2*time.Minute)),
		}

		roots := BuildThread(comments)

		assert.Len(t, roots, 1)
		assert.Equal(t, "c1", roots[0].ID)
	})

	t.Run("Empty input yields empty tree", func(t *testing.T) {
		roots := BuildThread(nil)
		assert.NotNil(t, roots)
		assert.Empty(t, roots)
	})
}

func idsOf(nodes []*CommentNode) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestThreadPatching(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	buildSample := func() []*CommentNode {
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("c2", strPtr("c1"), base.Add(1*time.Minute)),
			makeComment("c3", strPtr("c2"), base.Add(2*time.Minute)),
			makeComment("c4", nil, base.Add(3*time.Minute)),
		}
		return BuildThread(comments)
	}

	t.Run("Insert reply under existing parent", func(t *testing.T) {
		roots := buildSample()
		reply := makeComment("c5", strPtr("c2"), base.Add(4*time.Minute))

		patched, ok := insertThreadNode(roots, newCommentNode(&reply))

		assert.True(t, ok)
		// c2 原有 c3，新回复追加在末尾
		c2 := findThreadNode(patched, "c2")
		assert.Equal(t, []string{"c3", "c5"}, idsOf(c2.Replies))
	})

	t.Run("Insert top-level appends at end", func(t *testing.T) {
		roots := buildSample()
		top := makeComment("c5", nil, base.Add(4*time.Minute))

		patched, ok := insertThreadNode(roots, newCommentNode(&top))

		assert.True(t, ok)
		// 追加到顶层末尾，和整树按时间升序重建的结果一致
		assert.Equal(t, []string{"c1", "c4", "c5"}, idsOf(patched))
	})

	t.Run("Insert with missing parent reports failure", func(t *testing.T) {
		roots := buildSample()
		reply := makeComment("c5", strPtr("nowhere"), base.Add(4*time.Minute))

		_, ok := insertThreadNode(roots, newCommentNode(&reply))

		assert.False(t, ok)
	})

	t.Run("Update node content in place", func(t *testing.T) {
		roots := buildSample()
		editedAt := base.Add(10 * time.Minute)

		ok := updateThreadNode(roots, "c3", "edited", &editedAt)

		assert.True(t, ok)
		node := findThreadNode(roots, "c3")
		assert.Equal(t, "edited", node.Content)
		assert.Equal(t, &editedAt, node.EditedAt)
	})

	t.Run("Update missing node reports failure", func(t *testing.T) {
		roots := buildSample()
		assert.False(t, updateThreadNode(roots, "nowhere", "x", nil))
	})

	t.Run("Remove node takes whole subtree", func(t *testing.T) {
		roots := buildSample()

		patched, removed, ok := removeThreadNode(roots, "c2")

		assert.True(t, ok)
		assert.Equal(t, 2, removed) // c2 + c3
		assert.Equal(t, []string{"c1", "c4"}, idsOf(patched))
		assert.Empty(t, patched[0].Replies)
	})

	t.Run("Remove top-level node", func(t *testing.T) {
		roots := buildSample()

		patched, removed, ok := removeThreadNode(roots, "c1")

		assert.True(t, ok)
		assert.Equal(t, 3, removed) // c1 + c2 + c3
		assert.Equal(t, []string{"c4"}, idsOf(patched))
	})

	t.Run("Remove missing node reports failure", func(t *testing.T) {
		roots := buildSample()
		_, removed, ok := removeThreadNode(roots, "nowhere")
		assert.False(t, ok)
		assert.Zero(t, removed)
	})
}

func TestCollectSubtreeIDs(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Collects comment and all descendants", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("c2", strPtr("c1"), base.Add(1*time.Minute)),
			makeComment("c3", strPtr("c2"), base.Add(2*time.Minute)),
			makeComment("c4", strPtr("c2"), base.Add(3*time.Minute)),
			makeComment("c5", nil, base.Add(4*time.Minute)),
		}

		ids := collectSubtreeIDs(comments, "c2")

		assert.ElementsMatch(t, []string{"c2", "c3", "c4"}, ids)
	})

	t.Run("Leaf comment collects only itself", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("c2", strPtr("c1"), base.Add(1*time.Minute)),
		}

		ids := collectSubtreeIDs(comments, "c2")

		assert.Equal(t, []string{"c2"}, ids)
	})

	t.Run("Cyclic data terminates", func(t *testing.T) {
		comments := []model.Comment{
			makeComment("a", strPtr("b"), base),
			makeComment("b", strPtr("a"), base.Add(1*time.Minute)),
		}

		ids := collectSubtreeIDs(comments, "a")

		assert.LessOrEqual(t, len(ids), len(comments)+2)
		assert.Contains(t, ids, "a")
	})
}
