// Package profile locates profile files on disk and manages the persistence
// file that records applied entries.
//
// A profile named "gaming" is the file "gaming.conf" in the first directory of
// a [Store] that contains it. Files whose names begin with "." are hidden,
// which keeps the default persistence file out of listings.
package profile
