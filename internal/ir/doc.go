// Package ir provides the operand value types shared by every sieve package.
//
// This package contains value definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps operand values the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO binary floats - decimals are carried as exact normalized text (IRDecimal)
//   - Dates are normalized to UTC at construction (IRTime)
//   - Canonical JSON (RFC 8785) is the only encoding used for hashing
package ir
