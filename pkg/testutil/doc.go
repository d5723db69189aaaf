// Package testutil provides recording fakes for the installer's external
// collaborators and in-memory filesystems for fast, isolated tests.
//
// Key components:
//   - FakeRunner: records commands instead of executing them
//   - FakePrivileged: records elevated operations, optionally applying them
//   - ScriptedPrompter: answers prompts from a fixed script
//   - NewMemFS / FailingFS: afero-backed filesystems with error injection
package testutil
