package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/notepad/internal/noteservice"
)

// One-shot frontends run on the calling goroutine; no loop is needed because
// nothing else touches the session.

func (a *application) runList(env *environment) error {
	sess := env.session()
	query := strings.Join(a.args, " ")
	for _, e := range sess.Entries(query) {
		fmt.Fprintf(a.output, "%d\t%s\n", e.Position, e.Note.Title)
	}
	return nil
}

func (a *application) runNew(env *environment) error {
	sess := env.session()
	n, err := sess.CreateNote()
	if err != nil {
		return err
	}
	_, pos, _ := sess.Current()
	fmt.Fprintf(a.output, "%d\t%s\t%s\n", pos, n.Title, n.Filename)
	return nil
}

func (a *application) runShow(env *environment) error {
	if len(a.args) != 1 {
		return fmt.Errorf("show: exactly one position argument required")
	}
	pos, err := strconv.Atoi(a.args[0])
	if err != nil {
		return fmt.Errorf("show: invalid position %q", a.args[0])
	}
	sess := env.session()
	if err := sess.Select(pos); err != nil {
		return err
	}
	content := sess.CurrentContent()
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err = fmt.Fprint(a.output, content)
	return err
}

func (a *application) runSearch(env *environment) error {
	query := strings.TrimSpace(strings.Join(a.args, " "))
	if query == "" {
		return fmt.Errorf("search: query required")
	}
	db := env.searchIndex()
	if db == nil {
		return noteservice.ErrSearchDisabled
	}
	results, err := db.Search(query, 20)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(a.output, "%s\t%s\t%s\n", r.Filename, r.Title, r.Snippet)
	}
	return nil
}
