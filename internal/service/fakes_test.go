package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"instaclone/internal/model"
)

// In-memory repository fakes. They mirror the mongo implementations' contract:
// set semantics on the id-list updates, mongo.ErrNoDocuments for misses,
// newest-first ordering where the real queries sort.

type fakeUserRepo struct {
	users []*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) addUser(email, username, fullName string) *model.User {
	user := &model.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Username:  username,
		FullName:  fullName,
		Followers: []string{},
		Following: []string{},
		CreatedAt: time.Now().UTC(),
	}
	r.users = append(r.users, user)
	return user
}

func (r *fakeUserRepo) byID(id string) *model.User {
	for _, u := range r.users {
		if u.ID.Hex() == id {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) (string, error) {
	user.ID = primitive.NewObjectID()
	r.users = append(r.users, user)
	return user.ID.Hex(), nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if u := r.byID(id); u != nil {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) Search(_ context.Context, query string, limit int64) ([]model.User, error) {
	q := strings.ToLower(query)
	var results []model.User
	for _, u := range r.users {
		if int64(len(results)) == limit {
			break
		}
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.FullName), q) {
			results = append(results, *u)
		}
	}
	return results, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, set map[string]interface{}) error {
	u := r.byID(id)
	if u == nil {
		return mongo.ErrNoDocuments
	}
	if v, ok := set["fullName"]; ok {
		u.FullName = v.(string)
	}
	if v, ok := set["bio"]; ok {
		u.Bio = v.(string)
	}
	if v, ok := set["profilePicture"]; ok {
		url := v.(string)
		u.ProfilePicture = &url
	}
	return nil
}

func (r *fakeUserRepo) Follow(_ context.Context, followerID, targetID string) error {
	if follower := r.byID(followerID); follower != nil {
		follower.Following = addToSet(follower.Following, targetID)
	}
	if target := r.byID(targetID); target != nil {
		target.Followers = addToSet(target.Followers, followerID)
	}
	return nil
}

func (r *fakeUserRepo) Unfollow(_ context.Context, followerID, targetID string) error {
	if follower := r.byID(followerID); follower != nil {
		follower.Following = removeFromSet(follower.Following, targetID)
	}
	if target := r.byID(targetID); target != nil {
		target.Followers = removeFromSet(target.Followers, followerID)
	}
	return nil
}

type fakePostRepo struct {
	posts []*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{}
}

func (r *fakePostRepo) addPost(authorID, imageURL string, ts time.Time) *model.Post {
	post := &model.Post{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		ImageURL:  imageURL,
		Likes:     []string{},
		Comments:  []model.Comment{},
		Timestamp: ts,
	}
	r.posts = append(r.posts, post)
	return post
}

func (r *fakePostRepo) byID(id string) *model.Post {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return p
		}
	}
	return nil
}

func (r *fakePostRepo) Insert(_ context.Context, post *model.Post) (string, error) {
	post.ID = primitive.NewObjectID()
	r.posts = append(r.posts, post)
	return post.ID.Hex(), nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id string) (*model.Post, error) {
	if p := r.byID(id); p != nil {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePostRepo) FindByAuthors(_ context.Context, authorIDs []string, skip, limit int64) ([]model.Post, error) {
	var matched []model.Post
	for _, p := range r.posts {
		if authorIDs == nil || containsString(authorIDs, p.UserID) {
			matched = append(matched, *p)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if skip >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[skip:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakePostRepo) CountByAuthor(_ context.Context, authorID string) (int64, error) {
	var count int64
	for _, p := range r.posts {
		if p.UserID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID string) error {
	p := r.byID(postID)
	if p == nil {
		return mongo.ErrNoDocuments
	}
	p.Likes = addToSet(p.Likes, userID)
	return nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	p := r.byID(postID)
	if p == nil {
		return mongo.ErrNoDocuments
	}
	p.Likes = removeFromSet(p.Likes, userID)
	return nil
}

func (r *fakePostRepo) AppendComment(_ context.Context, postID string, comment model.Comment) error {
	p := r.byID(postID)
	if p == nil {
		return mongo.ErrNoDocuments
	}
	p.Comments = append(p.Comments, comment)
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeStoryRepo struct {
	stories []*model.Story
	views   []*model.StoryView
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{}
}

func (r *fakeStoryRepo) addStory(authorID, imageURL string, ts time.Time) *model.Story {
	story := &model.Story{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		ImageURL:  imageURL,
		Timestamp: ts,
		ExpiresAt: ts.Add(24 * time.Hour),
	}
	r.stories = append(r.stories, story)
	return story
}

func (r *fakeStoryRepo) Insert(_ context.Context, story *model.Story) (string, error) {
	story.ID = primitive.NewObjectID()
	r.stories = append(r.stories, story)
	return story.ID.Hex(), nil
}

func (r *fakeStoryRepo) FindByID(_ context.Context, id string) (*model.Story, error) {
	for _, s := range r.stories {
		if s.ID.Hex() == id {
			return s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeStoryRepo) FindActive(_ context.Context, authorIDs []string, since time.Time, limit int64) ([]model.Story, error) {
	var matched []model.Story
	for _, s := range r.stories {
		if s.Timestamp.Before(since) {
			continue
		}
		if authorIDs != nil && !containsString(authorIDs, s.UserID) {
			continue
		}
		matched = append(matched, *s)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeStoryRepo) FindView(_ context.Context, storyID, viewerID string) (*model.StoryView, error) {
	for _, v := range r.views {
		if v.StoryID == storyID && v.UserID == viewerID {
			return v, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeStoryRepo) InsertView(_ context.Context, view *model.StoryView) error {
	view.ID = primitive.NewObjectID()
	r.views = append(r.views, view)
	return nil
}

func (r *fakeStoryRepo) FindViews(_ context.Context, storyID string, limit int64) ([]model.StoryView, error) {
	var matched []model.StoryView
	for _, v := range r.views {
		if int64(len(matched)) == limit {
			break
		}
		if v.StoryID == storyID {
			matched = append(matched, *v)
		}
	}
	return matched, nil
}

type fakeMessageRepo struct {
	messages []*model.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) addMessage(senderID, receiverID, text string, ts time.Time) *model.Message {
	msg := &model.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  ts,
	}
	r.messages = append(r.messages, msg)
	return msg
}

func (r *fakeMessageRepo) Insert(_ context.Context, message *model.Message) (string, error) {
	message.ID = primitive.NewObjectID()
	r.messages = append(r.messages, message)
	return message.ID.Hex(), nil
}

func (r *fakeMessageRepo) FindTouching(_ context.Context, userID string, limit int64) ([]model.Message, error) {
	var matched []model.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			matched = append(matched, *m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeMessageRepo) FindBetween(_ context.Context, userA, userB string, limit int64) ([]model.Message, error) {
	var matched []model.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			matched = append(matched, *m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})

	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, senderID, receiverID string) error {
	for _, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Insert(_ context.Context, notification *model.Notification) error {
	notification.ID = primitive.NewObjectID()
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) FindByRecipient(_ context.Context, recipientID string, limit int64) ([]model.Notification, error) {
	var matched []model.Notification
	for _, n := range r.notifications {
		if n.UserID == recipientID {
			matched = append(matched, *n)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	for _, n := range r.notifications {
		if n.ID.Hex() == id && n.UserID == recipientID {
			n.Read = true
		}
	}
	return nil
}

// fakeMediaStorage records uploads and deletions instead of calling Cloudinary.
type fakeMediaStorage struct {
	uploads    []string
	deleted    []string
	failUpload bool
	failDelete bool
}

func (s *fakeMediaStorage) Upload(_ context.Context, _ io.Reader, _, folder, fileName string) (string, error) {
	if s.failUpload {
		return "", errors.New("cloudinary unavailable")
	}
	url := fmt.Sprintf("https://res.cloudinary.com/test/image/upload/v1/%s/%s", folder, fileName)
	s.uploads = append(s.uploads, url)
	return url, nil
}

func (s *fakeMediaStorage) Delete(_ context.Context, fileURL string) bool {
	s.deleted = append(s.deleted, fileURL)
	return !s.failDelete
}

func addToSet(set []string, value string) []string {
	if containsString(set, value) {
		return set
	}
	return append(set, value)
}

func removeFromSet(set []string, value string) []string {
	result := set[:0]
	for _, v := range set {
		if v != value {
			result = append(result, v)
		}
	}
	return result
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
