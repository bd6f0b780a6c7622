package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"online/db"
	"online/gateway"
	"online/session"
	"online/ui"
	"online/util"
)

func main() {

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalln(err)
	}

	// Everything below logs to a file; stdout belongs to the TUI.
	logFile, err := tea.LogToFile(util.ResolveFilePath(conf.Conf.LogFile), "online")
	if err != nil {
		log.Fatalln(err)
	}
	defer logFile.Close()

	sess := session.New()
	gw := gateway.New(conf, sess)

	restoreSession(gw, sess)

	p := tea.NewProgram(
		ui.NewModel(conf, gw, sess, 80, 24),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatalln(err)
	}
}

// restoreSession revalidates a persisted token against the backend. A token
// the server no longer accepts is dropped so the app starts at the login
// screen instead of failing on every call.
func restoreSession(gw *gateway.Client, sess *session.Session) {
	token, err := db.GetDB().ReadToken()
	if err != nil {
		log.Printf("token read failed: %v", err)
		return
	}
	if token == "" {
		return
	}

	sess.SetAuth(token, nil)
	user, err := gw.Me()
	if err != nil {
		log.Printf("stored token rejected: %v", err)
		sess.Logout()
		if err := db.GetDB().ClearToken(); err != nil {
			log.Printf("token clear failed: %v", err)
		}
		return
	}
	sess.SetUser(user)
}
