package exc

const (
	CodeUnknownFatal                 = "K0000"
	CodeFileNotFound                 = "K0001"
	CodeUnexpectedCharacter          = "K1001"
	CodeNoCharacterAfterBackSlash    = "K1002"
	CodeUnterminatedComment          = "K1003"
	CodeUnterminatedStringLiteral    = "K1004"
	CodeNoLineFeedAtEOF              = "K1005"
	CodeIncompleteScientificNotation = "K1006"
	CodeSingleAmpersand              = "K1007"
	CodeSingleDot                    = "K1008"
	CodeParseFloatFailure            = "K1009"
	CodeUnexpectedToken              = "K2001"
	CodeUnexpectedEOF                = "K2002"
	CodeUndefinedName                = "K3001"
	CodeTypeMismatch                 = "K3002"
	CodeBadArgument                  = "K3003"
	CodeBadOperand                   = "K3004"
	CodeNotCallable                  = "K3005"
	CodeBadIndex                     = "K3006"
	CodeBadControl                   = "K3007"
	CodeWriteFailure                 = "K4001"
)
