package content

// Resource names protecting each content kind. Each kind maps to exactly one
// resource for authorization purposes.
const (
	ResourcePosts     = "create_post"
	ResourceComments  = "comment_post"
	ResourceManage    = "manage_post"
	ResourceEvents    = "creating_event"
	ResourcePolls     = "creating_poll"
	ResourceReactions = "reaction_post"
)

// ResourceNames returns the fixed default resource set seeded at bootstrap.
func ResourceNames() []string {
	return []string{
		ResourcePosts,
		ResourceComments,
		ResourceManage,
		ResourceEvents,
		ResourcePolls,
		ResourceReactions,
	}
}

// Post is an authored article.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	OwnerID int64  `json:"owner_id"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID      int64  `json:"id"`
	PostID  int64  `json:"post_id"`
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

// ManageAction is a moderation record against a post.
type ManageAction struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	UserID int64  `json:"user_id"`
	Action string `json:"action"`
}

// Event is a scheduled happening.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner_id"`
}

// Poll is a question with encoded options.
type Poll struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Options  string `json:"options"`
	OwnerID  int64  `json:"owner_id"`
}

// Reaction is a typed response to a post.
type Reaction struct {
	ID           int64  `json:"id"`
	PostID       int64  `json:"post_id"`
	UserID       int64  `json:"user_id"`
	ReactionType string `json:"reaction_type"`
}
