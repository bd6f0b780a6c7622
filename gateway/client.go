// Package gateway is the typed client for the backend's single
// action-dispatch endpoint. Each backend action gets its own method with a
// concrete request/response shape, so the "one gateway" flexibility of the
// wire protocol stays behind a compile-time checked surface.
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"online/domain"
	"online/session"
	"online/util"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	sess    *session.Session
}

func New(conf *util.AppConfig, sess *session.Session) *Client {
	return &Client{
		baseURL: conf.Conf.ApiUrl,
		httpc:   &http.Client{Timeout: time.Duration(conf.Conf.RequestTimeout) * time.Second},
		sess:    sess,
	}
}

// request performs one action call. The token is read from the session at the
// start of the request and attached as a Bearer header when present. A non-2xx
// response with a structured error body becomes *APIError; anything else is a
// transport failure.
func (c *Client) request(action, method string, body any, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("action", action)

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", action, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+"?"+params.Encode(), reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			return &APIError{Status: res.StatusCode, Message: errBody.Error}
		}
		return fmt.Errorf("%s: unexpected status %d", action, res.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	return nil
}

// --- auth ---

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (c *Client) Register(username, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.request("register", http.MethodPost, map[string]string{
		"username": username, "email": email, "password": password,
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.request("login", http.MethodPost, map[string]string{
		"email": email, "password": password,
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me() (*domain.User, error) {
	var out struct {
		User *domain.User `json:"user"`
	}
	if err := c.request("me", http.MethodGet, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// --- feed, posts, comments ---

func (c *Client) Feed(page int) ([]domain.Post, error) {
	var out struct {
		Posts []domain.Post `json:"posts"`
	}
	params := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.request("feed", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) CreatePost(content, imageURL string) (*domain.Post, error) {
	var out struct {
		Post *domain.Post `json:"post"`
	}
	err := c.request("create_post", http.MethodPost, map[string]string{
		"content": content, "image_url": imageURL,
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (c *Client) GetPost(id int) (*domain.Post, error) {
	var out struct {
		Post *domain.Post `json:"post"`
	}
	params := url.Values{"id": {strconv.Itoa(id)}}
	if err := c.request("get_post", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (c *Client) RemovePost(postID int) error {
	return c.request("remove_post", http.MethodPost, map[string]int{"post_id": postID}, nil, nil)
}

func (c *Client) AddComment(postID int, content string, parentID int) error {
	body := map[string]any{"post_id": postID, "content": content}
	if parentID != 0 {
		body["parent_id"] = parentID
	}
	return c.request("add_comment", http.MethodPost, body, nil, nil)
}

func (c *Client) GetComments(postID int) ([]domain.Comment, error) {
	var out struct {
		Comments []domain.Comment `json:"comments"`
	}
	params := url.Values{"post_id": {strconv.Itoa(postID)}}
	if err := c.request("get_comments", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// ToggleLike toggles the viewer's like on a post (commentID zero) or on a
// comment (postID zero). The returned bool is the authoritative direction the
// toggle went.
func (c *Client) ToggleLike(postID, commentID int) (bool, error) {
	body := map[string]any{}
	if postID != 0 {
		body["post_id"] = postID
	}
	if commentID != 0 {
		body["comment_id"] = commentID
	}
	var out struct {
		Liked bool `json:"liked"`
	}
	if err := c.request("toggle_like", http.MethodPost, body, nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

func (c *Client) ToggleRepost(postID int) (bool, error) {
	var out struct {
		Reposted bool `json:"reposted"`
	}
	err := c.request("toggle_repost", http.MethodPost, map[string]int{"post_id": postID}, nil, &out)
	if err != nil {
		return false, err
	}
	return out.Reposted, nil
}

// --- follows ---

// ToggleFollow flips the follow relationship with a user. The server decides
// the resulting state: following=true, or pending=true for a private target,
// or both false after an unfollow/cancel.
func (c *Client) ToggleFollow(userID int) (following, pending bool, err error) {
	var out struct {
		Following bool `json:"following"`
		Pending   bool `json:"pending"`
	}
	err = c.request("toggle_follow", http.MethodPost, map[string]int{"user_id": userID}, nil, &out)
	if err != nil {
		return false, false, err
	}
	return out.Following, out.Pending, nil
}

func (c *Client) RespondFollow(followID int, action string) error {
	return c.request("respond_follow", http.MethodPost, map[string]any{
		"follow_id": followID, "action": action,
	}, nil, nil)
}

// FollowList lists users for typ in followers|following|friends|pending,
// scoped to userID (zero means the viewer). Pending entries carry follow_id.
func (c *Client) FollowList(userID int, typ string) ([]domain.FollowUser, error) {
	var out struct {
		Users []domain.FollowUser `json:"users"`
	}
	params := url.Values{"user_id": {strconv.Itoa(userID)}, "type": {typ}}
	if err := c.request("follow_list", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// --- profile, search ---

func (c *Client) Profile(username string) (*domain.Profile, error) {
	var out struct {
		Profile *domain.Profile `json:"profile"`
	}
	params := url.Values{"username": {username}}
	if err := c.request("profile", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

func (c *Client) UpdateProfile(fields map[string]any) error {
	return c.request("update_profile", http.MethodPost, fields, nil, nil)
}

func (c *Client) Search(q string) ([]domain.FollowUser, error) {
	var out struct {
		Users []domain.FollowUser `json:"users"`
	}
	params := url.Values{"q": {q}}
	if err := c.request("search", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// --- messaging ---

func (c *Client) GetChats() ([]domain.Chat, error) {
	var out struct {
		Chats []domain.Chat `json:"chats"`
	}
	if err := c.request("get_chats", http.MethodGet, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// GetMessages returns the conversation with userID in ascending created_at
// order, as persisted. Fetching also marks the peer's messages read
// server-side.
func (c *Client) GetMessages(userID int) ([]domain.Message, error) {
	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	params := url.Values{"user_id": {strconv.Itoa(userID)}}
	if err := c.request("get_messages", http.MethodGet, nil, params, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SendMessage(receiverID int, content string, replyToID int) error {
	body := map[string]any{"receiver_id": receiverID, "content": content}
	if replyToID != 0 {
		body["reply_to_id"] = replyToID
	}
	return c.request("send_message", http.MethodPost, body, nil, nil)
}

// MessageAction dispatches pin/edit/hide on a message, or clear_chat with
// the peer's userID.
func (c *Client) MessageAction(action string, messageID int, content string, userID int) error {
	body := map[string]any{"action": action}
	if messageID != 0 {
		body["message_id"] = messageID
	}
	if content != "" {
		body["content"] = content
	}
	if userID != 0 {
		body["user_id"] = userID
	}
	return c.request("message_action", http.MethodPost, body, nil, nil)
}

// --- notifications ---

func (c *Client) Notifications() ([]domain.Notification, error) {
	var out struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	if err := c.request("notifications", http.MethodGet, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

func (c *Client) ReadNotifications() error {
	return c.request("read_notifications", http.MethodPost, nil, nil, nil)
}

// --- stories ---

func (c *Client) GetStories() ([]domain.Story, error) {
	var out struct {
		Stories []domain.Story `json:"stories"`
	}
	if err := c.request("get_stories", http.MethodGet, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Stories, nil
}

func (c *Client) CreateStory(imageURL, visibility string) error {
	return c.request("create_story", http.MethodPost, map[string]string{
		"image_url": imageURL, "visibility": visibility,
	}, nil, nil)
}

// --- moderation ---

func (c *Client) Report(reason string, userID, postID int) error {
	body := map[string]any{"reason": reason}
	if userID != 0 {
		body["user_id"] = userID
	}
	if postID != 0 {
		body["post_id"] = postID
	}
	return c.request("report", http.MethodPost, body, nil, nil)
}

func (c *Client) ToggleBlock(userID int) (bool, error) {
	var out struct {
		Blocked bool `json:"blocked"`
	}
	err := c.request("toggle_block", http.MethodPost, map[string]int{"user_id": userID}, nil, &out)
	if err != nil {
		return false, err
	}
	return out.Blocked, nil
}

type AdminReportsResult struct {
	Reports       []domain.Report              `json:"reports"`
	Verifications []domain.VerificationRequest `json:"verifications"`
}

func (c *Client) AdminReports() (*AdminReportsResult, error) {
	var out AdminReportsResult
	if err := c.request("admin_reports", http.MethodGet, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminAction(action string, userID, postID, reportID int) error {
	body := map[string]any{"action": action}
	if userID != 0 {
		body["user_id"] = userID
	}
	if postID != 0 {
		body["post_id"] = postID
	}
	if reportID != 0 {
		body["report_id"] = reportID
	}
	return c.request("admin_action", http.MethodPost, body, nil, nil)
}

func (c *Client) AdminVerify(requestID int, action string) error {
	return c.request("admin_verify", http.MethodPost, map[string]any{
		"request_id": requestID, "action": action,
	}, nil, nil)
}

func (c *Client) RequestVerification() error {
	return c.request("request_verification", http.MethodPost, nil, nil, nil)
}
