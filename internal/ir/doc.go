// Package ir provides the term and scenario representation types for acegraph.
//
// This package contains the leaf-level data model shared by every other
// internal package. All other internal packages import ir; ir imports
// nothing internal.
//
// Key design constraints:
//   - Identifiers are allocated in strictly increasing order and never reused;
//     the zero ID is never allocated
//   - ACNode values are always sorted multisets; every constructor re-sorts
//   - Node is a closed sum type (UFNode | ACNode)
//   - All JSON tags use snake_case; snapshots hash through canonical JSON
package ir
