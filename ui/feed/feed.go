package feed

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"online/domain"
	"online/gateway"
	"online/interactions"
	"online/session"
	"online/stories"
	"online/ui/common"
	"online/util"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	postStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedPostStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(common.COLOR_MAGENTA)).
				Padding(0, 1)

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY)).
			Faint(true)

	activeStatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_MAGENTA))

	storyRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE)).
			MarginBottom(1)

	commentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			PaddingLeft(2)
)

type Model struct {
	Gw     *gateway.Client
	Sess   *session.Session
	Store  *interactions.Store
	Posts  []domain.Post
	Story  []stories.AuthorStories
	Cursor int
	Page   int
	Width  int
	Height int

	// CommentCursor indexes into the expanded comment list of the
	// selected post, -1 when no comment is selected.
	CommentCursor int

	composer   textarea.Model
	composing  bool
	storyMode  bool // composer writes a story instead of a post
	comment    textinput.Model
	commenting bool
	replyTo    int // parent comment id, zero for a top level comment
	status     string

	viewing     bool // story viewer open
	storyAuthor int
	storyIdx    int
}

type feedLoadedMsg struct {
	posts []domain.Post
	page  int
	epoch uuid.UUID
	err   error
}

type storiesLoadedMsg struct {
	grouped []stories.AuthorStories
	epoch   uuid.UUID
}

type postChangedMsg struct {
	epoch uuid.UUID
	err   error
}

type reportedMsg struct {
	err error
}

func InitialModel(gw *gateway.Client, sess *session.Session, store *interactions.Store) Model {
	composer := textarea.New()
	composer.Placeholder = "What's happening?"
	composer.CharLimit = 500
	composer.SetWidth(60)
	composer.SetHeight(4)

	comment := textinput.New()
	comment.Placeholder = "write a comment"
	comment.CharLimit = 300
	comment.Width = 50

	return Model{
		Gw:            gw,
		Sess:          sess,
		Store:         store,
		Page:          1,
		CommentCursor: -1,
		composer:      composer,
		comment:       comment,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(1), m.loadStories())
}

func (m Model) load(page int) tea.Cmd {
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		posts, err := gw.Feed(page)
		return feedLoadedMsg{posts: posts, page: page, epoch: epoch, err: err}
	}
}

func (m Model) loadStories() tea.Cmd {
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		list, err := gw.GetStories()
		if err != nil {
			log.Printf("stories load failed: %v", err)
			return storiesLoadedMsg{epoch: epoch}
		}
		return storiesLoadedMsg{grouped: stories.Group(list), epoch: epoch}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case feedLoadedMsg:
		if !m.Sess.Valid(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("feed load failed: %v", msg.err)
			return m, nil
		}
		m.Posts = msg.posts
		m.Page = msg.page
		if m.Cursor >= len(m.Posts) {
			m.Cursor = 0
		}
		for _, p := range m.Posts {
			m.Store.Track(p)
		}
		return m, nil

	case storiesLoadedMsg:
		if !m.Sess.Valid(msg.epoch) {
			return m, nil
		}
		m.Story = msg.grouped
		if m.viewing && (m.storyAuthor >= len(m.Story) || m.storyIdx >= len(m.Story[m.storyAuthor].Stories)) {
			m.viewing = false
		}
		return m, nil

	case postChangedMsg:
		if !m.Sess.Valid(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("post change failed: %v", msg.err)
			return m, nil
		}
		return m, tea.Batch(m.load(m.Page), m.loadStories())

	case reportedMsg:
		if msg.err != nil {
			log.Printf("report failed: %v", msg.err)
			return m, nil
		}
		m.status = "report sent"
		return m, nil

	case interactions.LikeToggledMsg:
		m.Store.ApplyLike(msg)
		return m, nil

	case interactions.RepostToggledMsg:
		m.Store.ApplyRepost(msg)
		return m, nil

	case interactions.CommentsLoadedMsg:
		m.Store.ApplyComments(msg)
		return m, nil

	case common.AuthSuccessMsg:
		return m, tea.Batch(m.load(1), m.loadStories())

	case common.LoggedOutMsg:
		m.Store.Reset()
		m.Posts = nil
		m.Story = nil
		m.Cursor = 0
		m.CommentCursor = -1
		m.Page = 1
		m.viewing = false
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			return m.updateComposer(msg)
		}
		if m.commenting {
			return m.updateComment(msg)
		}
		if m.viewing {
			return m.updateStoryViewer(msg)
		}
		return m.handleKey(msg)
	}

	return m, cmd
}

func (m Model) updateComposer(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
		m.composer.Blur()
		return m, nil
	case "ctrl+d":
		text := strings.TrimSpace(m.composer.Value())
		if text == "" {
			return m, nil
		}
		m.composing = false
		m.composer.Blur()
		m.composer.SetValue("")
		gw := m.Gw
		epoch := m.Sess.Epoch()
		story := m.storyMode
		return m, func() tea.Msg {
			var err error
			if story {
				err = gw.CreateStory(text, domain.StoryVisibilityAll)
			} else {
				_, err = gw.CreatePost(text, "")
			}
			return postChangedMsg{epoch: epoch, err: err}
		}
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) updateComment(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commenting = false
		m.comment.Blur()
		return m, nil
	case "enter":
		post := m.current()
		if post == nil {
			m.commenting = false
			m.comment.Blur()
			return m, nil
		}
		text := m.comment.Value()
		m.commenting = false
		m.comment.Blur()
		m.comment.SetValue("")
		return m, m.Store.AddComment(post.ID, text, m.replyTo)
	}
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m Model) updateStoryViewer(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "v":
		m.viewing = false
	case "l", "right":
		if m.storyIdx < len(m.Story[m.storyAuthor].Stories)-1 {
			m.storyIdx++
		} else if m.storyAuthor < len(m.Story)-1 {
			m.storyAuthor++
			m.storyIdx = 0
		}
	case "h", "left":
		if m.storyIdx > 0 {
			m.storyIdx--
		} else if m.storyAuthor > 0 {
			m.storyAuthor--
			m.storyIdx = len(m.Story[m.storyAuthor].Stories) - 1
		}
	case "j", "down":
		if m.storyAuthor < len(m.Story)-1 {
			m.storyAuthor++
			m.storyIdx = 0
		}
	case "k", "up":
		if m.storyAuthor > 0 {
			m.storyAuthor--
			m.storyIdx = 0
		}
	}
	if m.storyAuthor >= len(m.Story) {
		m.viewing = false
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.CommentCursor = -1
		}
	case "down", "j":
		if m.Cursor < len(m.Posts)-1 {
			m.Cursor++
			m.CommentCursor = -1
		}
	case "J":
		if post := m.current(); post != nil && m.Store.Expanded(post.ID) {
			if m.CommentCursor < len(m.Store.Comments(post.ID))-1 {
				m.CommentCursor++
			}
		}
	case "K":
		if m.CommentCursor >= 0 {
			m.CommentCursor--
		}
	case "r":
		return m, tea.Batch(m.load(m.Page), m.loadStories())
	case "]":
		return m, m.load(m.Page + 1)
	case "[":
		if m.Page > 1 {
			return m, m.load(m.Page - 1)
		}
	case "n":
		m.composing = true
		m.storyMode = false
		m.composer.Placeholder = "What's happening?"
		return m, m.composer.Focus()
	case "s":
		m.composing = true
		m.storyMode = true
		m.composer.Placeholder = "Story image URL (visible for 24h)"
		return m, m.composer.Focus()
	case "v":
		if len(m.Story) > 0 {
			m.viewing = true
			m.storyAuthor = 0
			m.storyIdx = 0
		}
	case "l":
		if post := m.current(); post != nil {
			if m.CommentCursor >= 0 {
				comments := m.Store.Comments(post.ID)
				if m.CommentCursor < len(comments) {
					return m, m.Store.ToggleCommentLike(post.ID, comments[m.CommentCursor].ID)
				}
				return m, nil
			}
			return m, m.Store.ToggleLike(post.ID)
		}
	case "b":
		if post := m.current(); post != nil {
			return m, m.Store.ToggleRepost(post.ID)
		}
	case "c":
		if post := m.current(); post != nil {
			m.CommentCursor = -1
			return m, m.Store.ToggleComments(post.ID)
		}
	case "a":
		if post := m.current(); post != nil {
			m.commenting = true
			m.replyTo = 0
			m.comment.Placeholder = "write a comment"
			if m.CommentCursor >= 0 {
				if comments := m.Store.Comments(post.ID); m.CommentCursor < len(comments) {
					m.replyTo = comments[m.CommentCursor].ID
					m.comment.Placeholder = "reply to " + comments[m.CommentCursor].AuthorName()
				}
			}
			return m, m.comment.Focus()
		}
	case "d":
		if post := m.current(); post != nil && m.canRemove(post) {
			gw := m.Gw
			epoch := m.Sess.Epoch()
			id := post.ID
			return m, func() tea.Msg {
				return postChangedMsg{epoch: epoch, err: gw.RemovePost(id)}
			}
		}
	case "x":
		if post := m.current(); post != nil {
			gw := m.Gw
			id := post.ID
			return m, func() tea.Msg {
				return reportedMsg{err: gw.Report(common.ReportReason, 0, id)}
			}
		}
	case "enter":
		if post := m.current(); post != nil {
			username := post.Username
			return m, func() tea.Msg {
				return common.OpenProfileMsg{Username: username}
			}
		}
	}
	return m, nil
}

// Typing reports whether the composer or comment input has focus.
func (m Model) Typing() bool {
	return m.composing || m.commenting
}

func (m Model) current() *domain.Post {
	if m.Cursor < 0 || m.Cursor >= len(m.Posts) {
		return nil
	}
	return &m.Posts[m.Cursor]
}

// canRemove allows deleting one's own posts; admins may remove any post.
func (m Model) canRemove(p *domain.Post) bool {
	u := m.Sess.User()
	if u == nil {
		return false
	}
	return u.ID == p.UserID || u.IsAdmin
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(fmt.Sprintf("Feed (page %d)", m.Page)))
	s.WriteString("\n")

	if len(m.Story) > 0 {
		var names []string
		for _, as := range m.Story {
			names = append(names, fmt.Sprintf("◉ %s(%d)", as.Stories[0].AuthorName(), len(as.Stories)))
		}
		s.WriteString(storyRowStyle.Render("stories (v): " + strings.Join(names, "  ")))
		s.WriteString("\n")
	}

	if m.viewing && m.storyAuthor < len(m.Story) {
		as := m.Story[m.storyAuthor]
		st := as.Stories[m.storyIdx]
		author := st.AuthorName()
		if st.IsVerified {
			author += " " + common.VerifiedMark
		}
		s.WriteString(headerStyle.Render(fmt.Sprintf("Story %d/%d", m.storyIdx+1, len(as.Stories))) + "\n")
		s.WriteString(authorStyle.Render(author) + " " + timeStyle.Render(util.TimeAgo(st.CreatedAt)) + "\n\n")
		s.WriteString(postStyle.Render(st.ImageURL) + "\n\n")
		s.WriteString(common.HelpStyle.Render("h/l: prev/next • j/k: author • esc: close"))
		return s.String()
	}

	if m.composing {
		title := "New post"
		if m.storyMode {
			title = "New story"
		}
		s.WriteString(headerStyle.Render(title) + "\n")
		s.WriteString(m.composer.View() + "\n")
		s.WriteString(common.HelpStyle.Render("ctrl-d: publish • esc: cancel"))
		return s.String()
	}

	if len(m.Posts) == 0 {
		s.WriteString(common.EmptyStyle.Render("No posts yet. Follow some people or write the first one!"))
	} else {
		for i := range m.Posts {
			s.WriteString(m.renderPost(i))
			s.WriteString("\n")
		}
	}

	if m.commenting {
		s.WriteString("\ncomment: " + m.comment.View() + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + common.StatusStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("j/k: move • J/K: comments • l: like • b: repost • c: expand • a: comment • n: post • s: story • d: delete • x: report • enter: profile • [/]: page"))
	return s.String()
}

func (m Model) renderPost(i int) string {
	post := m.Posts[i]
	st := m.Store.Post(post.ID)

	author := post.AuthorName()
	if post.IsVerified {
		author += " " + common.VerifiedMark
	}

	likes := fmt.Sprintf("♥ %d", st.Likes)
	if st.Liked {
		likes = activeStatStyle.Render(likes)
	}
	reposts := fmt.Sprintf("⇄ %d", st.Reposts)
	if st.Reposted {
		reposts = activeStatStyle.Render(reposts)
	}
	stats := fmt.Sprintf("%s  %s  💬 %d", likes, reposts, st.Comments)

	body := fmt.Sprintf("%s %s\n%s\n%s",
		authorStyle.Render(author),
		timeStyle.Render(util.TimeAgo(post.CreatedAt)),
		contentStyle.Render(util.Truncate(post.Content, 200)),
		stats,
	)

	if m.Store.Expanded(post.ID) {
		for ci, c := range m.Store.Comments(post.ID) {
			line := fmt.Sprintf("%s: %s", c.AuthorName(), util.Truncate(c.Content, 120))
			if c.ParentID != nil {
				line = "↳ " + line
			}
			if c.LikesCount > 0 {
				line += fmt.Sprintf(" (♥%d)", c.LikesCount)
			}
			if c.LikedByAuthor {
				line += " ♥by author"
			}
			if i == m.Cursor && ci == m.CommentCursor {
				line = activeStatStyle.Render("> " + line)
			}
			body += "\n" + commentStyle.Render(line)
		}
	}

	style := postStyle
	if i == m.Cursor {
		style = selectedPostStyle
	}
	return style.Width(min(m.Width-6, 90)).Render(body)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
