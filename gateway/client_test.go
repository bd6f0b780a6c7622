package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"online/domain"
	"online/session"
	"online/util"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &util.AppConfig{}
	conf.Conf.ApiUrl = srv.URL
	conf.Conf.RequestTimeout = 5

	sess := session.New()
	return New(conf, sess), sess
}

func TestRequestSetsActionParam(t *testing.T) {
	var gotAction string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		w.Write([]byte(`{"posts": []}`))
	})

	if _, err := client.Feed(1); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if gotAction != "feed" {
		t.Errorf("Expected action=feed, got %q", gotAction)
	}
}

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, sess := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user": null}`))
	})

	client.Me()
	if gotAuth != "" {
		t.Errorf("Expected no Authorization header before login, got %q", gotAuth)
	}

	sess.SetAuth("secret-token", &domain.User{ID: 1})
	client.Me()
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Expected bearer header after login, got %q", gotAuth)
	}
}

func TestStructuredErrorBecomesAPIError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid credentials"}`))
	})

	_, err := client.Login("a@b.c", "nope")
	if err == nil {
		t.Fatal("Expected an error")
	}

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "invalid credentials" {
		t.Errorf("Expected the server's message verbatim, got %q", apiErr.Message)
	}
	if UserMessage(err) != "invalid credentials" {
		t.Errorf("Expected UserMessage to surface the server text, got %q", UserMessage(err))
	}
}

func TestUnstructuredErrorIsNotAPIError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.Feed(1)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if _, ok := AsAPIError(err); ok {
		t.Error("Expected a plain transport error, not *APIError")
	}
}

func TestToggleLikeBody(t *testing.T) {
	var body map[string]any
	client, sess := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"liked": true}`))
	})
	sess.SetAuth("t", &domain.User{ID: 1})

	liked, err := client.ToggleLike(42, 0)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !liked {
		t.Error("Expected liked=true from the server")
	}
	if body["post_id"] != float64(42) {
		t.Errorf("Expected post_id 42 in the body, got %v", body["post_id"])
	}
	if _, hasComment := body["comment_id"]; hasComment {
		t.Error("Expected comment_id to be omitted for a post like")
	}
}

func TestToggleFollowParsesBothFlags(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"following": false, "pending": true}`))
	})

	following, pending, err := client.ToggleFollow(9)
	if err != nil {
		t.Fatalf("ToggleFollow failed: %v", err)
	}
	if following || !pending {
		t.Errorf("Expected (false, true), got (%v, %v)", following, pending)
	}
}

func TestFollowListParams(t *testing.T) {
	var query string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{"users": [{"follow_id": 900, "id": 5, "username": "alice"}]}`))
	})

	users, err := client.FollowList(0, "pending")
	if err != nil {
		t.Fatalf("FollowList failed: %v", err)
	}
	if len(users) != 1 || users[0].FollowID != 900 {
		t.Errorf("Expected one pending entry with follow_id 900, got %+v", users)
	}
	if !strings.Contains(query, "type=pending") {
		t.Errorf("Expected type=pending in the query, got %q", query)
	}
}

func TestMessageActionOmitsZeroFields(t *testing.T) {
	var body map[string]any
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{}`))
	})

	if err := client.MessageAction("clear_chat", 0, "", 7); err != nil {
		t.Fatalf("MessageAction failed: %v", err)
	}
	if body["action"] != "clear_chat" {
		t.Errorf("Expected action clear_chat, got %v", body["action"])
	}
	if _, has := body["message_id"]; has {
		t.Error("Expected message_id to be omitted for clear_chat")
	}
	if body["user_id"] != float64(7) {
		t.Errorf("Expected user_id 7, got %v", body["user_id"])
	}
}
