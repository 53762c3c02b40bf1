package ui

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"DraftBoard/internal"
	"DraftBoard/internal/api"
	"DraftBoard/internal/canvas"
	"DraftBoard/internal/doc"
	"DraftBoard/internal/export"
)

// drainInterval is how often queued control requests are applied to the
// canvas. The queue is drained in full each tick.
const drainInterval = 16 * time.Millisecond

// RunApp opens the main window and blocks until it closes. The canvas model
// is owned by the UI goroutine; control requests reach it only through the
// drain ticker.
func RunApp(cfg internal.Config, m *canvas.Canvas, control *api.ControlServer) {
	fyneApp := app.New()
	window := fyneApp.NewWindow("DraftBoard")
	window.Resize(fyne.NewSize(cfg.App.WindowWidth, cfg.App.WindowHeight))

	board := NewCanvasWidget(m)
	statusBar := widget.NewLabel("Ready")
	board.OnStatus = func(text string) { statusBar.SetText(text) }

	toolbar := NewToolbar(board)
	content := container.NewBorder(toolbar, statusBar, nil, nil, board)
	window.SetContent(content)
	window.SetMainMenu(buildMenu(window, board, cfg))

	if control != nil {
		stop := startDrain(m, control)
		defer stop()
	}

	window.ShowAndRun()
}

// startDrain pumps pending control requests onto the UI goroutine.
func startDrain(m *canvas.Canvas, control *api.ControlServer) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(drainInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !control.HasPending() {
					continue
				}
				fyne.DoAndWait(func() {
					control.DrainPending(m)
				})
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func buildMenu(window fyne.Window, board *CanvasWidget, cfg internal.Config) *fyne.MainMenu {
	saveItem := fyne.NewMenuItem("Save", func() {
		path := cfg.Document.Path
		if path == "" {
			showSaveDialog(window, board)
			return
		}
		if err := doc.Save(path, board.Model().Shapes()); err != nil {
			log.Printf("[canvas] Save failed: %v", err)
			dialog.ShowError(err, window)
			return
		}
		board.status("Saved %s", path)
	})
	exportItem := fyne.NewMenuItem("Export PDF...", func() {
		dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			_ = writer.Close()
			if err := export.PDF(path, board.Model().Shapes()); err != nil {
				log.Printf("[canvas] PDF export failed: %v", err)
				dialog.ShowError(err, window)
				return
			}
			board.status("Exported %s", path)
		}, window)
	})
	fileMenu := fyne.NewMenu("File", saveItem, exportItem)

	selectAll := fyne.NewMenuItem("Select All", func() {
		board.Model().SelectAll()
		board.Refresh()
	})
	duplicate := fyne.NewMenuItem("Duplicate", func() {
		board.Model().DuplicateSelected()
		board.Refresh()
	})
	editMenu := fyne.NewMenu("Edit", selectAll, duplicate)

	return fyne.NewMainMenu(fileMenu, editMenu)
}

func showSaveDialog(window fyne.Window, board *CanvasWidget) {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		if err := doc.Save(path, board.Model().Shapes()); err != nil {
			log.Printf("[canvas] Save failed: %v", err)
			dialog.ShowError(err, window)
			return
		}
		board.status("Saved %s", path)
	}, window)
}
