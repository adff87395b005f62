package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textmark/internal/annotation"
	"github.com/dshills/textmark/internal/config"
	"github.com/dshills/textmark/internal/document"
	"github.com/dshills/textmark/internal/rebuild"
)

// errQuit signals a normal user exit from the viewer.
var errQuit = errors.New("quit")

var (
	styleDefault = tcell.StyleDefault
	styleMarker  = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)

	kindStyles = map[annotation.Kind]tcell.Style{
		annotation.KindSpellcheck:  tcell.StyleDefault.Foreground(tcell.ColorRed),
		annotation.KindKeyword:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
		annotation.KindTag:         tcell.StyleDefault.Foreground(tcell.ColorYellow),
		annotation.KindQuote:       tcell.StyleDefault.Foreground(tcell.ColorAqua),
		annotation.KindLink:        tcell.StyleDefault.Foreground(tcell.ColorBlue).Underline(true),
		annotation.KindMention:     tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
		annotation.KindSpecialChar: tcell.StyleDefault.Foreground(tcell.ColorOrange).Reverse(true),
		annotation.KindScript:      tcell.StyleDefault.Foreground(tcell.ColorTeal),
	}
)

// runStyle picks the style for a run. Nested runs (more than one
// covering annotation) take the innermost annotation's color with an
// underline so the nesting is visible.
func runStyle(run document.Run) tcell.Style {
	switch run.Kind {
	case document.RunMarker:
		return styleMarker
	case document.RunText:
		return styleDefault
	}
	if len(run.Annotations) == 0 {
		return styleDefault
	}
	inner := run.Annotations[len(run.Annotations)-1]
	style, ok := kindStyles[inner.Annotation.Kind]
	if !ok {
		style = styleDefault
	}
	if len(run.Annotations) > 1 {
		style = style.Underline(true)
	}
	return style
}

// runViewer renders the annotated tree and blocks until the user
// quits. In watch mode, rule file changes reload the rules, trigger a
// rebuild, and repaint.
func runViewer(host *surface, r *rebuild.Rebuilder, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	redraw := make(chan struct{}, 1)
	if opts.Watch {
		watcher, err := config.WatchFile(opts.RulesPath, 200*time.Millisecond, func() {
			rs, err := loadRules(opts.RulesPath)
			if err != nil {
				return // keep the previous rules on a bad reload
			}
			r.SetMatcher(rs.Matcher())
			r.Flush()
			select {
			case redraw <- struct{}{}:
			default:
			}
		})
		if err != nil {
			return fmt.Errorf("watching rule file: %w", err)
		}
		defer watcher.Close()
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	paint(screen, host.Document())
	for {
		select {
		case <-redraw:
			paint(screen, host.Document())
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				paint(screen, host.Document())
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return errQuit
				}
			}
		}
	}
}

// paint draws the run tree, substituting the visible symbol for marker
// and collapsed runs.
func paint(screen tcell.Screen, doc *document.Document) {
	screen.Clear()
	width, height := screen.Size()

	for li, line := range doc.Lines {
		if li >= height {
			break
		}
		col := 0
		for _, run := range line.Runs {
			style := runStyle(run)
			text := run.Text
			if run.Symbol != "" {
				text = run.Symbol
			}
			for _, ch := range text {
				if col >= width {
					break
				}
				screen.SetContent(col, li, ch, nil, style)
				col++
			}
		}
	}
	screen.Show()
}
