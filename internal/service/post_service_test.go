package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"instaclone/internal/model"
	"instaclone/pkg/apperror"
)

type postFixture struct {
	users         *fakeUserRepo
	posts         *fakePostRepo
	messages      *fakeMessageRepo
	notifications *fakeNotificationRepo
	media         *fakeMediaStorage
	svc           PostService
}

func newPostFixture() *postFixture {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	messages := newFakeMessageRepo()
	notifications := newFakeNotificationRepo()
	media := &fakeMediaStorage{}

	notificationSvc := NewNotificationService(notifications, users)
	svc := NewPostService(posts, users, messages, notificationSvc, media, "instaclone")

	return &postFixture{
		users:         users,
		posts:         posts,
		messages:      messages,
		notifications: notifications,
		media:         media,
		svc:           svc,
	}
}

func TestPostService_LikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	bob := f.users.addUser("bob@x.com", "bob", "Bob B")
	post := f.posts.addPost(bob.ID.Hex(), "https://img/post.jpg", time.Now())

	aliceID := alice.ID.Hex()
	postID := post.ID.Hex()

	require.NoError(t, f.svc.Like(ctx, aliceID, postID))
	require.NoError(t, f.svc.Like(ctx, aliceID, postID))

	require.Len(t, post.Likes, 1)

	// Repeating the like must not notify the author a second time.
	require.Len(t, f.notifications.notifications, 1)
	notif := f.notifications.notifications[0]
	require.Equal(t, model.NotificationTypeLike, notif.Type)
	require.Equal(t, bob.ID.Hex(), notif.UserID)
	require.Equal(t, aliceID, notif.ActorID)
	require.Equal(t, "curtiu sua foto", notif.Message)
	require.NotNil(t, notif.PostID)
	require.Equal(t, postID, *notif.PostID)

	require.NoError(t, f.svc.Unlike(ctx, aliceID, postID))
	require.Empty(t, post.Likes)

	// A fresh like after an unlike is a new event and notifies again.
	require.NoError(t, f.svc.Like(ctx, aliceID, postID))
	require.Len(t, f.notifications.notifications, 2)
}

func TestPostService_LikeOwnPostSkipsNotification(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	bob := f.users.addUser("bob@x.com", "bob", "Bob B")
	post := f.posts.addPost(bob.ID.Hex(), "https://img/post.jpg", time.Now())

	require.NoError(t, f.svc.Like(ctx, bob.ID.Hex(), post.ID.Hex()))
	require.Len(t, post.Likes, 1)
	require.Empty(t, f.notifications.notifications)
}

func TestPostService_LikeMissingPostIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	require.NoError(t, f.svc.Like(ctx, alice.ID.Hex(), "64b000000000000000000000"))
	require.Empty(t, f.notifications.notifications)
}

func TestPostService_Feed(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	bob := f.users.addUser("bob@x.com", "bob", "Bob B")
	carol := f.users.addUser("carol@x.com", "carol", "Carol C")

	aliceID, bobID, carolID := alice.ID.Hex(), bob.ID.Hex(), carol.ID.Hex()

	now := time.Now()
	f.posts.addPost(bobID, "https://img/bob.jpg", now.Add(-time.Hour))
	f.posts.addPost(carolID, "https://img/carol.jpg", now.Add(-2*time.Hour))

	t.Run("discovery mode for a user following no one", func(t *testing.T) {
		feed, err := f.svc.Feed(ctx, aliceID, 1, 10)
		require.NoError(t, err)
		require.Len(t, feed.Posts, 2)
		require.False(t, feed.HasMore)
		// Newest first.
		require.Equal(t, "bob", feed.Posts[0].Username)
		require.Equal(t, "carol", feed.Posts[1].Username)
	})

	t.Run("following filters to followees plus self", func(t *testing.T) {
		require.NoError(t, f.users.Follow(ctx, aliceID, bobID))

		feed, err := f.svc.Feed(ctx, aliceID, 1, 10)
		require.NoError(t, err)
		require.Len(t, feed.Posts, 1)
		require.Equal(t, bobID, feed.Posts[0].UserID)
		require.False(t, feed.Posts[0].Liked)
	})

	t.Run("hasMore true iff page is exactly full", func(t *testing.T) {
		feed, err := f.svc.Feed(ctx, aliceID, 1, 1)
		require.NoError(t, err)
		require.Len(t, feed.Posts, 1)
		require.True(t, feed.HasMore)
	})

	t.Run("liked flag reflects the caller", func(t *testing.T) {
		require.NoError(t, f.svc.Like(ctx, aliceID, f.posts.posts[0].ID.Hex()))

		feed, err := f.svc.Feed(ctx, aliceID, 1, 10)
		require.NoError(t, err)
		require.True(t, feed.Posts[0].Liked)
		require.Equal(t, 1, feed.Posts[0].Likes)
	})
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")

	post, err := f.svc.Create(ctx, alice.ID.Hex(), "my caption", &MediaFile{
		Reader:      bytes.NewReader([]byte("img")),
		FileName:    "pic.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	require.Equal(t, "my caption", post.Caption)
	require.Equal(t, "alice", post.Username)
	require.Zero(t, post.Likes)
	require.Contains(t, post.ImageURL, "instaclone/posts")
	require.Len(t, f.posts.posts, 1)
}

func TestPostService_CreateUploadFailure(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	f.media.failUpload = true

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")

	_, err := f.svc.Create(ctx, alice.ID.Hex(), "caption", &MediaFile{
		Reader:      bytes.NewReader([]byte("img")),
		FileName:    "pic.jpg",
		ContentType: "image/jpeg",
	})

	require.Error(t, err)
	require.Equal(t, 500, apperror.MapErrorToStatus(err))
	// No partial record is written.
	require.Empty(t, f.posts.posts)
}

func TestPostService_AddComment(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	bob := f.users.addUser("bob@x.com", "bob", "Bob B")
	post := f.posts.addPost(bob.ID.Hex(), "https://img/post.jpg", time.Now())

	longText := strings.Repeat("x", 50)
	comment, err := f.svc.AddComment(ctx, alice.ID.Hex(), post.ID.Hex(), longText)
	require.NoError(t, err)
	require.NotEmpty(t, comment.ID)
	require.Equal(t, "alice", comment.Username)
	require.Equal(t, longText, comment.Text)
	require.Len(t, post.Comments, 1)

	// Notification preview is capped at the first 30 characters.
	require.Len(t, f.notifications.notifications, 1)
	notif := f.notifications.notifications[0]
	require.Equal(t, model.NotificationTypeComment, notif.Type)
	require.Equal(t, bob.ID.Hex(), notif.UserID)
	require.Equal(t, "comentou: \""+strings.Repeat("x", 30)+"\"", notif.Message)
}

func TestPostService_CommentUsernameIsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	post := f.posts.addPost(alice.ID.Hex(), "https://img/post.jpg", time.Now())

	comment, err := f.svc.AddComment(ctx, alice.ID.Hex(), post.ID.Hex(), "hello")
	require.NoError(t, err)

	// Renaming the commenter later must not retouch the stored comment.
	alice.Username = "alice_renamed"
	require.Equal(t, "alice", comment.Username)
	require.Equal(t, "alice", post.Comments[0].Username)
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	bob := f.users.addUser("bob@x.com", "bob", "Bob B")
	post := f.posts.addPost(bob.ID.Hex(), "https://img/post.jpg", time.Now())
	postID := post.ID.Hex()

	t.Run("missing post", func(t *testing.T) {
		err := f.svc.Delete(ctx, bob.ID.Hex(), "64b000000000000000000000")
		require.Error(t, err)
		require.Equal(t, 404, apperror.MapErrorToStatus(err))
	})

	t.Run("not the author", func(t *testing.T) {
		err := f.svc.Delete(ctx, alice.ID.Hex(), postID)
		require.Error(t, err)
		require.Equal(t, 403, apperror.MapErrorToStatus(err))
		// Post, likes and media untouched.
		require.Len(t, f.posts.posts, 1)
		require.Empty(t, f.media.deleted)
	})

	t.Run("author deletes, media first", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, bob.ID.Hex(), postID))
		require.Empty(t, f.posts.posts)
		require.Equal(t, []string{"https://img/post.jpg"}, f.media.deleted)
	})

	t.Run("media delete failure is swallowed", func(t *testing.T) {
		post := f.posts.addPost(bob.ID.Hex(), "https://img/other.jpg", time.Now())
		f.media.failDelete = true

		require.NoError(t, f.svc.Delete(ctx, bob.ID.Hex(), post.ID.Hex()))
		require.Empty(t, f.posts.posts)
	})
}

func TestPostService_Share(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	alice := f.users.addUser("alice@x.com", "alice", "Alice A")
	bob := f.users.addUser("bob@x.com", "bob", "Bob B")
	carol := f.users.addUser("carol@x.com", "carol", "Carol C")
	post := f.posts.addPost(bob.ID.Hex(), "https://img/post.jpg", time.Now())

	count, err := f.svc.Share(ctx, alice.ID.Hex(), post.ID.Hex(), []string{bob.ID.Hex(), carol.ID.Hex()})
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, f.messages.messages, 2)

	for _, msg := range f.messages.messages {
		require.Equal(t, "Compartilhou um post", msg.Text)
		require.NotNil(t, msg.PostID)
		require.Equal(t, post.ID.Hex(), *msg.PostID)
		require.False(t, msg.Read)
	}

	_, err = f.svc.Share(ctx, alice.ID.Hex(), "64b000000000000000000000", []string{bob.ID.Hex()})
	require.Error(t, err)
	require.Equal(t, 404, apperror.MapErrorToStatus(err))
}
