// Package workers runs the browser's background scans.
//
// Two job kinds exist. A size scan totals the bytes of regular files under a
// target and reports one Completed event. A name search streams a Found
// event per match and ends with Finished. Both walk the tree with fastwalk
// and check for cancellation at every entry, so a cancelled job stops within
// one directory entry and reports Cancelled.
//
// Only one size scan runs per pool: starting another cancels the one in
// flight. Every job's Events channel carries exactly one terminal event and
// is then closed. A consumer must read it until it closes or call Discard.
package workers
