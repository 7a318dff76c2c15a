package feed

// FileRecord describes one selected file. Records are immutable: they capture
// the relative path, absolute path, and size observed at selection time.
type FileRecord struct {
	Path    string // Slash-separated path relative to the traversal root
	AbsPath string // Absolute path used for reading the contents
	Size    int64  // Size in bytes at selection time
}
