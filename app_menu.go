package main

import (
	"fmt"
	"runtime"

	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// buildMenu creates the application menu structure
func (a *App) buildMenu() *menu.Menu {
	appMenu := menu.NewMenu()

	// On macOS, add the app menu first (About, Settings, etc.)
	if runtime.GOOS == "darwin" {
		lensMenu := appMenu.AddSubmenu("ClaudeLens")
		lensMenu.AddText("About ClaudeLens", nil, func(_ *menu.CallbackData) {
			a.emitMenuAction("menu:about")
		})
		lensMenu.AddSeparator()
		lensMenu.AddText("Settings...", keys.CmdOrCtrl(","), func(_ *menu.CallbackData) {
			a.emitMenuAction("menu:settings")
		})
		lensMenu.AddSeparator()
		// Hide/Show/Quit are automatically added by macOS
	}

	// Edit menu (standard - needed for copy/paste to work)
	editMenu := appMenu.AddSubmenu("Edit")
	editMenu.AddText("Undo", keys.CmdOrCtrl("z"), func(_ *menu.CallbackData) {
		// Standard edit operations are handled by the webview
	})
	editMenu.AddText("Redo", keys.Combo("z", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
	})
	editMenu.AddSeparator()
	editMenu.AddText("Cut", keys.CmdOrCtrl("x"), func(_ *menu.CallbackData) {
	})
	editMenu.AddText("Copy", keys.CmdOrCtrl("c"), func(_ *menu.CallbackData) {
	})
	editMenu.AddText("Paste", keys.CmdOrCtrl("v"), func(_ *menu.CallbackData) {
	})
	editMenu.AddSeparator()
	editMenu.AddText("Select All", keys.CmdOrCtrl("a"), func(_ *menu.CallbackData) {
	})

	// Archive menu
	archiveMenu := appMenu.AddSubmenu("Archive")
	archiveMenu.AddText("Refresh", keys.CmdOrCtrl("r"), func(_ *menu.CallbackData) {
		a.emitMenuAction("menu:refresh")
	})
	archiveMenu.AddText("Search...", keys.CmdOrCtrl("f"), func(_ *menu.CallbackData) {
		a.emitMenuAction("menu:search")
	})
	archiveMenu.AddText("Active Sessions", keys.Combo("a", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
		a.emitMenuAction("menu:active-sessions")
	})
	archiveMenu.AddSeparator()
	archiveMenu.AddText("Start Watcher", nil, func(_ *menu.CallbackData) {
		a.StartWatching()
		a.RefreshMenu()
	})
	archiveMenu.AddText(a.watcherStatusLabel(), nil, nil).Disabled = true
	archiveMenu.AddSeparator()
	archiveMenu.AddText("Clear Prompt History...", nil, func(_ *menu.CallbackData) {
		a.clearPromptHistoryWithConfirm()
	})

	// Window menu (standard macOS)
	if runtime.GOOS == "darwin" {
		windowMenu := appMenu.AddSubmenu("Window")
		windowMenu.AddText("Minimize", keys.CmdOrCtrl("m"), func(_ *menu.CallbackData) {
			wailsRuntime.WindowMinimise(a.ctx)
		})
		windowMenu.AddText("Zoom", nil, func(_ *menu.CallbackData) {
			wailsRuntime.WindowToggleMaximise(a.ctx)
		})
	}

	return appMenu
}

func (a *App) watcherStatusLabel() string {
	if a.WatcherRunning() {
		return "Watcher: running"
	}
	return "Watcher: stopped"
}

// clearPromptHistoryWithConfirm asks before emptying history.jsonl
func (a *App) clearPromptHistoryWithConfirm() {
	ok, err := a.ConfirmDialog("Clear Prompt History", "Remove every entry from the Claude Code prompt history?")
	if err != nil || !ok {
		return
	}
	if err := a.ClearCommandHistory(); err != nil {
		a.AlertDialog("Clear Prompt History", fmt.Sprintf("Failed to clear prompt history: %v", err))
		return
	}
	a.emitMenuAction("menu:refresh")
}

// emitMenuAction sends a menu action event to the frontend
func (a *App) emitMenuAction(action string) {
	wailsRuntime.EventsEmit(a.ctx, action)
}

// RefreshMenu rebuilds and updates the application menu
func (a *App) RefreshMenu() {
	if a.ctx == nil {
		return
	}
	newMenu := a.buildMenu()
	wailsRuntime.MenuSetApplicationMenu(a.ctx, newMenu)
	wailsRuntime.MenuUpdateApplicationMenu(a.ctx)
}

// GetMenu returns the initial menu for the app
func (a *App) GetMenu() *menu.Menu {
	return a.buildMenu()
}

// =============================================================================
// DIALOG WRAPPERS (Go-only runtime functions exposed to frontend)
// =============================================================================

// ConfirmDialog shows a confirmation dialog
func (a *App) ConfirmDialog(title, message string) (bool, error) {
	result, err := wailsRuntime.MessageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
		Type:    wailsRuntime.QuestionDialog,
		Title:   title,
		Message: message,
	})
	return result == "Yes", err
}

// AlertDialog shows an info alert dialog
func (a *App) AlertDialog(title, message string) error {
	_, err := wailsRuntime.MessageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
		Type:    wailsRuntime.InfoDialog,
		Title:   title,
		Message: message,
	})
	return err
}
