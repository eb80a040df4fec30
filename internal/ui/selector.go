package ui

import "sync"

// FileSelector owns the single selected file of a workspace.
type FileSelector struct {
	mu       sync.Mutex
	view     View
	preview  *Preview
	selected *File
}

// NewFileSelector returns a selector with nothing selected.
func NewFileSelector(view View, preview *Preview) *FileSelector {
	return &FileSelector{view: view, preview: preview}
}

// RestoreSelector rebuilds a selector holding f without touching the view.
func RestoreSelector(view View, preview *Preview, f *File) *FileSelector {
	s := NewFileSelector(view, preview)
	if f != nil {
		cp := *f
		s.selected = &cp
	}
	return s
}

// Change handles a selection-change event. The first file wins; an empty
// list clears the selection.
func (s *FileSelector) Change(files []File) {
	s.mu.Lock()
	if len(files) == 0 {
		s.selected = nil
		s.mu.Unlock()

		s.view.ShowPlaceholder(true)
		s.view.SetPreviewSource("")
		s.view.SetSubmitEnabled(false)
		return
	}
	file := files[0]
	s.selected = &file
	s.mu.Unlock()

	s.view.ShowPlaceholder(false)
	s.view.SetSubmitEnabled(true)
	if s.preview != nil {
		s.preview.Show(file)
	}
}

// Selected returns the current file, if any.
func (s *FileSelector) Selected() (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return File{}, false
	}
	return *s.selected, true
}
