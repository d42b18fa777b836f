// Package facility describes the sports venues a scan checks and collects
// the per-venue availability it finds.
//
// Each Facility carries a detection Variant. The first facility in a roster is
// always the Primary one: it is reached through its reservation button and the
// full calendar flow, and the date it resolves anchors the whole scan. Every
// other facility is Secondary and is checked by switching the facility dropdown.
package facility
