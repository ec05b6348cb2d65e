package realtime

import (
	"errors"
	"fmt"

	"github.com/experiencehub/backend/internal/models"
	"github.com/experiencehub/backend/internal/repositories"
	"gorm.io/gorm"
)

// ErrCommentNotFound is returned by React when the target comment does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// ReactionEngine applies like/dislike toggle semantics to comments and
// broadcasts the recomputed counts to the experience's discussion group.
type ReactionEngine struct {
	comments  repositories.CommentRepository
	reactions repositories.CommentReactionRepository
	sender    GroupSender
}

// NewReactionEngine creates a ReactionEngine
func NewReactionEngine(commentRepo repositories.CommentRepository, reactionRepo repositories.CommentReactionRepository, sender GroupSender) *ReactionEngine {
	return &ReactionEngine{
		comments:  commentRepo,
		reactions: reactionRepo,
		sender:    sender,
	}
}

// React toggles a user's reaction on a comment:
//   - no prior reaction: a row with the given isLike is inserted
//   - same reaction repeated: the row is deleted (un-react)
//   - opposite reaction: the row's value is flipped in place
//
// The comment's denormalized counts are then recomputed from the stored
// reaction rows. They are never incremented, so concurrent toggles converge
// on a correct recount even if an intermediate broadcast was stale.
func (e *ReactionEngine) React(commentID, userID uint, isLike bool) (*ReactionUpdate, error) {
	comment, err := e.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("load comment %d: %w", commentID, err)
	}

	existing, err := e.reactions.GetReaction(commentID, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := &models.CommentReaction{CommentID: commentID, UserID: userID, IsLike: isLike}
		if err := e.reactions.CreateReaction(reaction); err != nil {
			return nil, fmt.Errorf("create reaction: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load reaction: %w", err)
	case existing.IsLike == isLike:
		if err := e.reactions.DeleteReaction(commentID, userID); err != nil {
			return nil, fmt.Errorf("delete reaction: %w", err)
		}
	default:
		existing.IsLike = isLike
		if err := e.reactions.UpdateReaction(existing); err != nil {
			return nil, fmt.Errorf("update reaction: %w", err)
		}
	}

	likes, err := e.reactions.CountReactions(commentID, true)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	dislikes, err := e.reactions.CountReactions(commentID, false)
	if err != nil {
		return nil, fmt.Errorf("count dislikes: %w", err)
	}

	if err := e.comments.UpdateReactionCounts(commentID, int(likes), int(dislikes)); err != nil {
		return nil, fmt.Errorf("persist reaction counts: %w", err)
	}

	update := &ReactionUpdate{
		CommentID:     commentID,
		LikesCount:    int(likes),
		DislikesCount: int(dislikes),
	}
	e.sender.SendToGroup(ExperienceGroup(int(comment.ExperienceID)), Event{
		Type:    EventUpdateReaction,
		Payload: update,
	})
	return update, nil
}
