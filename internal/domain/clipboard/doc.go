// Package clipboard holds the file browser's copy/cut selection.
//
// State is the only place a selection survives between a copy or cut and
// the paste that resolves it. Consume hands a snapshot to the paste
// operation and performs the post-paste reset: a Cut selection is cleared
// and the mode returns to Copy only when the paste reported no failure.
// Copy selections survive pastes so the same items can be pasted again.
package clipboard
