// Package output renders jbgen results as YAML or JSON.
//
// # Output Types
//
//   - ClassifyOutput: per-class classification with scores (jbgen classify)
//   - PlanOutput: what generation would change in one file (jbgen generate --dry-run)
//   - BatchOutput: the batch report (jbgen batch)
//   - RunsOutput / UndoOutput: run history (jbgen history, jbgen undo)
//
// # Format Types
//
//   - YAML (default): self-documenting, human-readable
//   - JSON: machine-readable, same structure as YAML
//
// Scores are kept next to every tag so a reader can see why a class was
// treated as a JavaBean or a business class.
package output
