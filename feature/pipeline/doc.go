// Package pipeline sequences one sync run and the loop repeating it.
//
// A run walks the state machine
//
//	CHECKING -> UP_TO_DATE
//	CHECKING -> FETCHING -> EXTRACTING -> MERGING -> LISTING -> AUGMENTING -> DONE
//	FORCED_MERGE -> MERGING -> LISTING -> AUGMENTING -> DONE
//
// CHECKING compares the upstream head commit with the stored snapshot
// signature. When the commit cannot be resolved the archive is downloaded and
// its sha256 compared instead, and an unchanged archive ends the run without
// extracting. Stages run one after another, each consuming the whole output of
// the previous one; per-file work inside a stage is parallel.
//
// The snapshot signature is saved only after every stage succeeded. A failing
// run ends in FAILED, keeps the previous signature and is retried from
// CHECKING on the next attempt. Notifiers run after a successful run with
// changes; their failures are logged only.
package pipeline
