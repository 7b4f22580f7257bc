// Package system integrates with the host desktop: launching files in their
// default application.
package system
