package execshell

import (
	"fmt"
	"regexp"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixConstant             = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	redactedCredentialPlaceholderConstant   = "<redacted>"
)

const (
	gitCloneSubcommandNameConstant = "clone"
	gitPushSubcommandNameConstant  = "push"
	gitMirrorFlagConstant          = "--mirror"
)

const (
	gitMirrorCloneStartTemplateConstant            = "Mirroring %s into %s"
	gitMirrorCloneSuccessTemplateConstant          = "Mirrored %s into %s"
	gitMirrorCloneFailureTemplateConstant          = "Failed to mirror %s into %s (exit code %d%s)"
	gitMirrorCloneExecutionFailureTemplateConstant = "Unable to mirror %s into %s: %s"
	gitMirrorPushStartTemplateConstant             = "Pushing mirror from %s to %s"
	gitMirrorPushSuccessTemplateConstant           = "Pushed mirror from %s to %s"
	gitMirrorPushFailureTemplateConstant           = "Failed to push mirror from %s to %s (exit code %d%s)"
	gitMirrorPushExecutionFailureTemplateConstant  = "Unable to push mirror from %s to %s: %s"
)

// credentialBearingURLPattern matches the userinfo portion of an http(s) URL.
var credentialBearingURLPattern = regexp.MustCompile(`(https?://)[^/@\s]+@`)

// RedactText replaces credential userinfo embedded in URLs within the provided text.
func RedactText(text string) string {
	return credentialBearingURLPattern.ReplaceAllString(text, "${1}"+redactedCredentialPlaceholderConstant+"@")
}

// CommandMessageFormatter builds human-readable, credential-free messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit && len(command.Details.Arguments) > 0 {
		subcommand := strings.TrimSpace(command.Details.Arguments[0])
		switch subcommand {
		case gitCloneSubcommandNameConstant:
			if containsArgument(command.Details.Arguments, gitMirrorFlagConstant) {
				return formatter.describeMirrorClone(command, result, failure, stage)
			}
		case gitPushSubcommandNameConstant:
			if containsArgument(command.Details.Arguments, gitMirrorFlagConstant) {
				return formatter.describeMirrorPush(command, result, failure, stage)
			}
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeMirrorClone(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	sourceURL := RedactText(formatter.argumentAtIndex(command.Details.Arguments, len(command.Details.Arguments)-2))
	targetDirectory := formatter.argumentAtIndex(command.Details.Arguments, len(command.Details.Arguments)-1)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMirrorCloneStartTemplateConstant, sourceURL, targetDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitMirrorCloneSuccessTemplateConstant, sourceURL, targetDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitMirrorCloneFailureTemplateConstant, sourceURL, targetDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitMirrorCloneExecutionFailureTemplateConstant, sourceURL, targetDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeMirrorPush(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	destinationURL := RedactText(formatter.argumentAtIndex(command.Details.Arguments, len(command.Details.Arguments)-1))
	workingDirectory := command.Details.WorkingDirectory

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMirrorPushStartTemplateConstant, workingDirectory, destinationURL)
	case messageStageSuccess:
		return fmt.Sprintf(gitMirrorPushSuccessTemplateConstant, workingDirectory, destinationURL)
	case messageStageFailure:
		return fmt.Sprintf(gitMirrorPushFailureTemplateConstant, workingDirectory, destinationURL, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitMirrorPushExecutionFailureTemplateConstant, workingDirectory, destinationURL, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := fmt.Sprintf(commandLabelTemplateConstant, command.Name, RedactText(strings.Join(command.Details.Arguments, " ")))
	if len(command.Details.WorkingDirectory) > 0 {
		commandLabel += fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	if len(trimmed) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixConstant, RedactText(trimmed))
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return RedactText(failure.Error())
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return ""
	}
	return strings.TrimSpace(arguments[index])
}

func containsArgument(arguments []string, candidate string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == candidate {
			return true
		}
	}
	return false
}
