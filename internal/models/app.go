package models

// FileEntry is one row of the file panel
type FileEntry struct {
	Path     string
	IsFolder bool
	Active   bool
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages         []Message   // Current messages to display
	Files            []FileEntry // Workspace listing for the file panel
	Preview          string      // Content of the active file
	PreviewLanguage  string      // Fence language of the active file, if known
	Input            string      // User input field
	Status           string      // Status bar text
	Loading          bool        // Loading state from core
	LoadingDots      int         // Animation counter for loading dots
	Width            int         // Terminal width
	Height           int         // Terminal height
	ChatServiceReady bool        // Whether chat service is available
	ExportDir        string      // Target directory for ctrl+s, empty disables export
}
