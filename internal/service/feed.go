package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"socialplay/internal/model"
	"socialplay/internal/repository"
)

// FeedService owns posts and their comments.
type FeedService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	media    *MediaService
}

func NewFeedService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	media *MediaService,
) *FeedService {
	return &FeedService{
		posts:    posts,
		comments: comments,
		media:    media,
	}
}

// CreatePost publishes a post with text, media or both. Nothing is written
// when the request is rejected.
func (s *FeedService) CreatePost(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	content := strings.TrimSpace(req.Content)

	hasMedia := req.Media != nil && req.Media.Filename != ""
	if hasMedia && !model.IsAllowedMedia(req.Media.Filename) {
		return nil, model.ErrUnsupportedMedia
	}
	if content == "" && !hasMedia {
		return nil, model.ErrEmptyPost
	}

	var mediaPath *string
	if hasMedia {
		key, err := s.media.StorePostMedia(ctx, userID, req.Media)
		if err != nil {
			return nil, err
		}
		mediaPath = &key
	}

	var contentPtr *string
	if content != "" {
		contentPtr = &content
	}

	post, err := s.posts.Create(ctx, userID, contentPtr, mediaPath)
	if err != nil {
		if mediaPath != nil {
			if rmErr := s.media.Remove(ctx, *mediaPath); rmErr != nil {
				log.Printf("[FeedService] %v", rmErr)
			}
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	log.Printf("[FeedService] Post %d created by user %d", post.ID, userID)
	return post, nil
}

// AddComment attaches a comment to an existing post.
func (s *FeedService) AddComment(ctx context.Context, userID, postID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrContentRequired
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.comments.Create(ctx, postID, userID, content)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	log.Printf("[FeedService] Comment %d added to post %d by user %d", comment.ID, postID, userID)
	return comment, nil
}

// ListFeed returns every post newest first with its comments oldest first.
// Comments are loaded in one query and grouped by post.
func (s *FeedService) ListFeed(ctx context.Context) ([]model.FeedPost, error) {
	posts, err := s.posts.ListWithAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	comments, err := s.comments.ListWithAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	byPost := make(map[int64][]model.FeedComment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], model.FeedComment{
			ID:      c.ID,
			Content: c.Content,
			Author: model.UserSummary{
				ID:          c.UserID,
				Username:    c.Username,
				DisplayName: c.DisplayName,
				AvatarURL:   s.media.AvatarURL(c.AuthorAvatarPath),
			},
			CreatedAt: c.CreatedAt,
		})
	}

	feed := make([]model.FeedPost, 0, len(posts))
	for _, p := range posts {
		item := model.FeedPost{
			ID:        p.ID,
			MediaURL:  s.media.MediaURL(p.MediaPath),
			MediaKind: model.MediaNone,
			Author: model.UserSummary{
				ID:          p.UserID,
				Username:    p.Username,
				DisplayName: p.DisplayName,
				AvatarURL:   s.media.AvatarURL(p.AuthorAvatarPath),
			},
			CreatedAt: p.CreatedAt,
			Comments:  byPost[p.ID],
		}
		if p.Content != nil {
			item.Content = *p.Content
		}
		if p.MediaPath != nil {
			item.MediaKind = model.ClassifyMedia(*p.MediaPath)
		}
		if item.Comments == nil {
			item.Comments = []model.FeedComment{}
		}
		feed = append(feed, item)
	}

	return feed, nil
}
