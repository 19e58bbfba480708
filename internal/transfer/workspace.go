package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultWorkspaceRootNameConstant          = "gitmigrate"
	workspaceDirectorySuffixConstant          = ".git"
	workspaceRootCreationErrorTemplateConstant = "unable to create workspace root %s: %w"
	workspaceResetErrorTemplateConstant        = "unable to reset workspace %s: %w"
	workspaceNameMissingMessageConstant        = "workspace repository name must not be empty"
	workspaceNameInvalidTemplateConstant       = "workspace repository name %q must not contain path separators"
	workspaceDirectoryPermissionsConstant      = 0o755
)

var errWorkspaceNameMissing = errors.New(workspaceNameMissingMessageConstant)

// Workspace is the ephemeral directory holding exactly one in-flight mirror clone.
type Workspace struct {
	Path string
}

// Release removes the workspace directory; safe to call on every exit path.
func (workspace Workspace) Release() error {
	if len(workspace.Path) == 0 {
		return nil
	}
	return os.RemoveAll(workspace.Path)
}

// WorkspaceManager allocates per-repository workspaces beneath one root directory.
type WorkspaceManager struct {
	rootDirectory string
}

// NewWorkspaceManager prepares the workspace root, defaulting to a temporary location.
func NewWorkspaceManager(rootDirectory string) (*WorkspaceManager, error) {
	resolvedRoot := strings.TrimSpace(rootDirectory)
	if len(resolvedRoot) == 0 {
		resolvedRoot = filepath.Join(os.TempDir(), defaultWorkspaceRootNameConstant)
	}

	if creationError := os.MkdirAll(resolvedRoot, workspaceDirectoryPermissionsConstant); creationError != nil {
		return nil, fmt.Errorf(workspaceRootCreationErrorTemplateConstant, resolvedRoot, creationError)
	}

	return &WorkspaceManager{rootDirectory: resolvedRoot}, nil
}

// RootDirectory exposes the resolved workspace root.
func (manager *WorkspaceManager) RootDirectory() string {
	return manager.rootDirectory
}

// Acquire returns a fresh, empty workspace scoped to the repository name,
// removing any residue from an interrupted earlier run.
func (manager *WorkspaceManager) Acquire(repositoryName string) (Workspace, error) {
	trimmedName := strings.TrimSpace(repositoryName)
	if len(trimmedName) == 0 {
		return Workspace{}, errWorkspaceNameMissing
	}
	if strings.ContainsAny(trimmedName, string(os.PathSeparator)+"/") {
		return Workspace{}, fmt.Errorf(workspaceNameInvalidTemplateConstant, repositoryName)
	}

	workspacePath := filepath.Join(manager.rootDirectory, trimmedName+workspaceDirectorySuffixConstant)
	if resetError := os.RemoveAll(workspacePath); resetError != nil {
		return Workspace{}, fmt.Errorf(workspaceResetErrorTemplateConstant, workspacePath, resetError)
	}

	return Workspace{Path: workspacePath}, nil
}
