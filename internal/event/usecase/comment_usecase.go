package usecase

import (
	"context"

	"aura-backend/internal/event/domain/model"
	idmodel "aura-backend/internal/idgen/domain/model"
	apperrors "aura-backend/internal/shared/errors"
)

// CreateComment adds the caller's comment to a future event.
func (uc *EventUsecase) CreateComment(ctx context.Context, callerID string, req CreateCommentRequest) (*model.Comment, error) {
	if _, err := uc.events.Get(ctx, model.KindFuture, req.EventID); err != nil {
		return nil, err
	}

	id, err := uc.ids.Allocate(ctx, idmodel.CommentID)
	if err != nil {
		return nil, err
	}
	c := &model.Comment{
		ID:        id,
		EventID:   req.EventID,
		AuthorID:  callerID,
		Name:      req.Comment.Name,
		Avatar:    req.Comment.Avatar,
		Content:   req.Comment.Content,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"eventId": req.EventID, "commentId": id}).Info("Comment added")
	return c, nil
}

// UpdateComment edits a comment. Only its author may.
func (uc *EventUsecase) UpdateComment(ctx context.Context, callerID string, req UpdateCommentRequest) error {
	if _, err := uc.authoredComment(ctx, callerID, req.CommentID, "update"); err != nil {
		return err
	}
	return uc.comments.Update(ctx, req.CommentID, req.Comment, uc.now().UTC())
}

// DeleteComment removes a comment. Only its author may.
func (uc *EventUsecase) DeleteComment(ctx context.Context, callerID, commentID string) error {
	if _, err := uc.authoredComment(ctx, callerID, commentID, "delete"); err != nil {
		return err
	}
	if err := uc.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"commentId": commentID}).Info("Comment deleted")
	return nil
}

// ListComments returns a future event's comments, oldest first.
func (uc *EventUsecase) ListComments(ctx context.Context, q CommentsQuery) ([]model.Comment, error) {
	if _, err := uc.events.Get(ctx, model.KindFuture, q.EventID); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = uc.config.CommentPageSize
	}
	return uc.comments.ListByEvent(ctx, q.EventID, limit)
}

func (uc *EventUsecase) authoredComment(ctx context.Context, callerID, commentID, action string) (*model.Comment, error) {
	c, err := uc.comments.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.events.Get(ctx, model.KindFuture, c.EventID); err != nil {
		return nil, err
	}
	if c.AuthorID != callerID {
		return nil, apperrors.NewAuthorizationError("Forbidden: You have no right to " + action + " this comment")
	}
	return c, nil
}
