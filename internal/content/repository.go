package content

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// Repository defines persistence for the six content kinds.
type Repository interface {
	CreatePost(ctx context.Context, title, content string, ownerID int64) (*Post, error)
	ListPosts(ctx context.Context) ([]Post, error)
	UpdatePost(ctx context.Context, id int64, title, content string) (*Post, error)
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, postID, userID int64, content string) (*Comment, error)
	ListComments(ctx context.Context) ([]Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) (*Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	CreateManageAction(ctx context.Context, postID, userID int64, action string) (*ManageAction, error)
	ListManageActions(ctx context.Context) ([]ManageAction, error)
	UpdateManageAction(ctx context.Context, id int64, action string) (*ManageAction, error)
	DeleteManageAction(ctx context.Context, id int64) error

	CreateEvent(ctx context.Context, title, description string, ownerID int64) (*Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, id int64, title, description string) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	CreatePoll(ctx context.Context, question, options string, ownerID int64) (*Poll, error)
	ListPolls(ctx context.Context) ([]Poll, error)
	UpdatePoll(ctx context.Context, id int64, question, options string) (*Poll, error)
	DeletePoll(ctx context.Context, id int64) error

	CreateReaction(ctx context.Context, postID, userID int64, reactionType string) (*Reaction, error)
	ListReactions(ctx context.Context) ([]Reaction, error)
	UpdateReaction(ctx context.Context, id int64, reactionType string) (*Reaction, error)
	DeleteReaction(ctx context.Context, id int64) error
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func notFoundOnNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

func (r *PGRepository) deleteRow(ctx context.Context, query string, id int64) error {
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreatePost inserts a post owned by ownerID.
func (r *PGRepository) CreatePost(ctx context.Context, title, content string, ownerID int64) (*Post, error) {
	var p Post
	err := r.pool.QueryRow(ctx, `INSERT INTO posts (title, content, owner_id) VALUES ($1, $2, $3)
RETURNING id, title, content, owner_id`, title, content, ownerID).Scan(&p.ID, &p.Title, &p.Content, &p.OwnerID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns all posts ordered by id.
func (r *PGRepository) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, content, owner_id FROM posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.OwnerID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePost overwrites title and content.
func (r *PGRepository) UpdatePost(ctx context.Context, id int64, title, content string) (*Post, error) {
	var p Post
	err := r.pool.QueryRow(ctx, `UPDATE posts SET title = $2, content = $3 WHERE id = $1
RETURNING id, title, content, owner_id`, id, title, content).Scan(&p.ID, &p.Title, &p.Content, &p.OwnerID)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return &p, nil
}

// DeletePost removes a post by id.
func (r *PGRepository) DeletePost(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, `DELETE FROM posts WHERE id = $1`, id)
}

// CreateComment inserts a comment by userID on postID.
func (r *PGRepository) CreateComment(ctx context.Context, postID, userID int64, content string) (*Comment, error) {
	var c Comment
	err := r.pool.QueryRow(ctx, `INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3)
RETURNING id, post_id, user_id, content`, postID, userID, content).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns all comments ordered by id.
func (r *PGRepository) ListComments(ctx context.Context) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, post_id, user_id, content FROM comments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment overwrites the comment body.
func (r *PGRepository) UpdateComment(ctx context.Context, id int64, content string) (*Comment, error) {
	var c Comment
	err := r.pool.QueryRow(ctx, `UPDATE comments SET content = $2 WHERE id = $1
RETURNING id, post_id, user_id, content`, id, content).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return &c, nil
}

// DeleteComment removes a comment by id.
func (r *PGRepository) DeleteComment(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, `DELETE FROM comments WHERE id = $1`, id)
}

// CreateManageAction inserts a moderation record.
func (r *PGRepository) CreateManageAction(ctx context.Context, postID, userID int64, action string) (*ManageAction, error) {
	var m ManageAction
	err := r.pool.QueryRow(ctx, `INSERT INTO manage_actions (post_id, user_id, action) VALUES ($1, $2, $3)
RETURNING id, post_id, user_id, action`, postID, userID, action).Scan(&m.ID, &m.PostID, &m.UserID, &m.Action)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListManageActions returns all moderation records ordered by id.
func (r *PGRepository) ListManageActions(ctx context.Context) ([]ManageAction, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, post_id, user_id, action FROM manage_actions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var actions []ManageAction
	for rows.Next() {
		var m ManageAction
		if err := rows.Scan(&m.ID, &m.PostID, &m.UserID, &m.Action); err != nil {
			return nil, err
		}
		actions = append(actions, m)
	}
	return actions, rows.Err()
}

// UpdateManageAction overwrites the action label.
func (r *PGRepository) UpdateManageAction(ctx context.Context, id int64, action string) (*ManageAction, error) {
	var m ManageAction
	err := r.pool.QueryRow(ctx, `UPDATE manage_actions SET action = $2 WHERE id = $1
RETURNING id, post_id, user_id, action`, id, action).Scan(&m.ID, &m.PostID, &m.UserID, &m.Action)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return &m, nil
}

// DeleteManageAction removes a moderation record by id.
func (r *PGRepository) DeleteManageAction(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, `DELETE FROM manage_actions WHERE id = $1`, id)
}

// CreateEvent inserts an event owned by ownerID.
func (r *PGRepository) CreateEvent(ctx context.Context, title, description string, ownerID int64) (*Event, error) {
	var e Event
	err := r.pool.QueryRow(ctx, `INSERT INTO events (title, description, owner_id) VALUES ($1, $2, $3)
RETURNING id, title, description, owner_id`, title, description, ownerID).Scan(&e.ID, &e.Title, &e.Description, &e.OwnerID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEvents returns all events ordered by id.
func (r *PGRepository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, description, owner_id FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.OwnerID); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEvent overwrites title and description.
func (r *PGRepository) UpdateEvent(ctx context.Context, id int64, title, description string) (*Event, error) {
	var e Event
	err := r.pool.QueryRow(ctx, `UPDATE events SET title = $2, description = $3 WHERE id = $1
RETURNING id, title, description, owner_id`, id, title, description).Scan(&e.ID, &e.Title, &e.Description, &e.OwnerID)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return &e, nil
}

// DeleteEvent removes an event by id.
func (r *PGRepository) DeleteEvent(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, `DELETE FROM events WHERE id = $1`, id)
}

// CreatePoll inserts a poll owned by ownerID.
func (r *PGRepository) CreatePoll(ctx context.Context, question, options string, ownerID int64) (*Poll, error) {
	var p Poll
	err := r.pool.QueryRow(ctx, `INSERT INTO polls (question, options, owner_id) VALUES ($1, $2, $3)
RETURNING id, question, options, owner_id`, question, options, ownerID).Scan(&p.ID, &p.Question, &p.Options, &p.OwnerID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPolls returns all polls ordered by id.
func (r *PGRepository) ListPolls(ctx context.Context) ([]Poll, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, question, options, owner_id FROM polls ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var polls []Poll
	for rows.Next() {
		var p Poll
		if err := rows.Scan(&p.ID, &p.Question, &p.Options, &p.OwnerID); err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

// UpdatePoll overwrites question and options.
func (r *PGRepository) UpdatePoll(ctx context.Context, id int64, question, options string) (*Poll, error) {
	var p Poll
	err := r.pool.QueryRow(ctx, `UPDATE polls SET question = $2, options = $3 WHERE id = $1
RETURNING id, question, options, owner_id`, id, question, options).Scan(&p.ID, &p.Question, &p.Options, &p.OwnerID)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return &p, nil
}

// DeletePoll removes a poll by id.
func (r *PGRepository) DeletePoll(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, `DELETE FROM polls WHERE id = $1`, id)
}

// CreateReaction inserts a typed reaction by userID on postID.
func (r *PGRepository) CreateReaction(ctx context.Context, postID, userID int64, reactionType string) (*Reaction, error) {
	var re Reaction
	err := r.pool.QueryRow(ctx, `INSERT INTO reactions (post_id, user_id, reaction_type) VALUES ($1, $2, $3)
RETURNING id, post_id, user_id, reaction_type`, postID, userID, reactionType).Scan(&re.ID, &re.PostID, &re.UserID, &re.ReactionType)
	if err != nil {
		return nil, err
	}
	return &re, nil
}

// ListReactions returns all reactions ordered by id.
func (r *PGRepository) ListReactions(ctx context.Context) ([]Reaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, post_id, user_id, reaction_type FROM reactions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reactions []Reaction
	for rows.Next() {
		var re Reaction
		if err := rows.Scan(&re.ID, &re.PostID, &re.UserID, &re.ReactionType); err != nil {
			return nil, err
		}
		reactions = append(reactions, re)
	}
	return reactions, rows.Err()
}

// UpdateReaction overwrites the reaction type.
func (r *PGRepository) UpdateReaction(ctx context.Context, id int64, reactionType string) (*Reaction, error) {
	var re Reaction
	err := r.pool.QueryRow(ctx, `UPDATE reactions SET reaction_type = $2 WHERE id = $1
RETURNING id, post_id, user_id, reaction_type`, id, reactionType).Scan(&re.ID, &re.PostID, &re.UserID, &re.ReactionType)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return &re, nil
}

// DeleteReaction removes a reaction by id.
func (r *PGRepository) DeleteReaction(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, `DELETE FROM reactions WHERE id = $1`, id)
}
