// Package target resolves which calendar day a scan is looking for.
//
// A WeekdaySpec names the weekday to target, either symbolically (Saturday, Sunday,
// Wednesday) or as an explicit Monday=0 index. Resolve turns a reference day and a
// WeekdaySpec into a Date that is always strictly in the future: when the reference
// day already falls on the target weekday, the following week's occurrence is used.
package target
