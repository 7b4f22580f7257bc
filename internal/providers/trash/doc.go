// Package trash implements the freedesktop.org trash layout.
//
// Put moves an item to $XDG_DATA_HOME/Trash/files and records where it came
// from in Trash/info/<name>.trashinfo. The info file is created exclusively
// first, which reserves the trash name; the item is then renamed into place.
// Items on a different volume than the trash directory are rejected with
// ErrNotSupported rather than copied.
package trash
