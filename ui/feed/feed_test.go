package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"online/domain"
	"online/gateway"
	"online/interactions"
	"online/session"
	"online/ui/common"
	"online/util"
)

func testModel(t *testing.T, user *domain.User, handler http.HandlerFunc) Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &util.AppConfig{}
	conf.Conf.ApiUrl = srv.URL
	conf.Conf.RequestTimeout = 5

	sess := session.New()
	sess.SetAuth("token", user)
	gw := gateway.New(conf, sess)

	m := InitialModel(gw, sess, interactions.NewStore(gw, sess))
	m.Posts = []domain.Post{{ID: 42, UserID: 2, Username: "someone", Content: "hi"}}
	return m
}

func key(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestOwnerCanRemovePost(t *testing.T) {
	var gotAction string
	m := testModel(t, &domain.User{ID: 2, Username: "someone"}, func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		w.Write([]byte(`{}`))
	})

	_, cmd := m.Update(key("d"))
	if cmd == nil {
		t.Fatal("Expected a removal command for the post's owner")
	}
	if msg := cmd().(postChangedMsg); msg.err != nil {
		t.Fatalf("Removal failed: %v", msg.err)
	}
	if gotAction != "remove_post" {
		t.Errorf("Expected action=remove_post, got %q", gotAction)
	}
}

func TestAdminCanRemoveAnyPost(t *testing.T) {
	var gotAction string
	m := testModel(t, &domain.User{ID: 1, Username: "mod", IsAdmin: true}, func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		w.Write([]byte(`{}`))
	})

	_, cmd := m.Update(key("d"))
	if cmd == nil {
		t.Fatal("Expected an admin to get a removal command for a foreign post")
	}
	if msg := cmd().(postChangedMsg); msg.err != nil {
		t.Fatalf("Removal failed: %v", msg.err)
	}
	if gotAction != "remove_post" {
		t.Errorf("Expected action=remove_post, got %q", gotAction)
	}
}

func TestRemoveRequiresOwnershipOrAdmin(t *testing.T) {
	requests := 0
	m := testModel(t, &domain.User{ID: 1, Username: "bystander"}, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{}`))
	})

	_, cmd := m.Update(key("d"))
	if cmd != nil {
		t.Error("Expected no command for a foreign post without the admin flag")
	}
	if requests != 0 {
		t.Errorf("Expected no backend call, got %d", requests)
	}
}

func TestReportSendsFixedReason(t *testing.T) {
	var body struct {
		Reason string `json:"reason"`
		PostID int    `json:"post_id"`
	}
	m := testModel(t, &domain.User{ID: 1, Username: "viewer"}, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{}`))
	})

	_, cmd := m.Update(key("x"))
	if cmd == nil {
		t.Fatal("Expected a report command")
	}
	if msg := cmd().(reportedMsg); msg.err != nil {
		t.Fatalf("Report failed: %v", msg.err)
	}
	if body.Reason != common.ReportReason {
		t.Errorf("Expected reason %q, got %q", common.ReportReason, body.Reason)
	}
	if body.PostID != 42 {
		t.Errorf("Expected post_id 42, got %d", body.PostID)
	}
}
