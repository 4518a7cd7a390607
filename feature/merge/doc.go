// Package merge consolidates canonical item documents with their variant
// records.
//
// Upstream ships alternate versions of some items under a sibling
// "_variants/<stem>/" directory. For weapons the direct damage stat, and for
// armor the bullet damage factor, differ between variants; the engine folds
// every variant's values into the canonical element as one ascending,
// duplicate-free numericVariants set.
//
// # Rules
//
//   - weapon* categories match DamageTypeKey, armor* categories match
//     BulletDamageFactorKey, anything else is returned unchanged.
//   - Elements inside a block titled UpgradeStatsTitleKey never contribute to the
//     bullet damage factor set.
//   - Colors and per-value locale strings are first writer wins: canonical first,
//     then variants in the order given.
//
// # Batch
//
// Engine.Run walks the raw tree, treats every file outside a _variants subtree
// as canonical and writes the result at the same relative path under the output
// root. One file's failure never aborts its siblings.
package merge
