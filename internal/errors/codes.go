package errors

// Error codes for the gotoc toolchain
//
// Error code ranges:
// E0100-E0199: Parser errors
// E0200-E0299: Front-end resolution errors
// E0300-E0399: Code generation invariant violations
// E0400-E0499: Contract clause errors

const (
	// Parser errors (E0100-E0199)

	// E0100: The source does not match the grammar
	ErrorSyntax = "E0100"

	// E0101: The source file could not be read
	ErrorUnreadableSource = "E0101"

	// Front-end errors (E0200-E0299)

	// E0200: Unknown type name
	ErrorUnknownType = "E0200"

	// E0201: Reference to a local that is not declared
	ErrorUnknownLocal = "E0201"

	// E0202: Jump to a block that does not exist
	ErrorUnknownBlock = "E0202"

	// E0203: A struct, function, local or block is defined twice
	ErrorDuplicateDefinition = "E0203"

	// E0204: A terminator is missing or appears before the end of a block
	ErrorMisplacedTerminator = "E0204"

	// E0205: Call of an undefined function
	ErrorUnknownFunction = "E0205"

	// E0206: The spread argument is not the last parameter or not a tuple
	ErrorInvalidSpreadArg = "E0206"

	// E0207: Locals or blocks are not numbered consecutively
	ErrorLocalNumbering = "E0207"

	// E0208: Wrong number of type arguments
	ErrorTypeArguments = "E0208"

	// E0209: An operand, field or aggregate does not fit its type
	ErrorInvalidOperand = "E0209"

	// E0210: A struct contains itself by value
	ErrorRecursiveType = "E0210"

	// E0211: Polymorphic recursion instantiates functions without bound
	ErrorInstantiationLimit = "E0211"

	// Code generation (E0300-E0399)

	// E0300: Internal invariant violation while generating code
	ErrorCodegenInvariant = "E0300"

	// E0301: Entry function requested on the command line does not exist
	ErrorUnknownEntry = "E0301"

	// Contract errors (E0400-E0499)

	// E0400: Contract helper is not defined
	ErrorUnknownContractHelper = "E0400"

	// E0401: Contract helper takes the wrong parameters
	ErrorContractHelperArity = "E0401"

	// E0402: Contract helper does not return bool
	ErrorContractHelperReturn = "E0402"

	// E0403: Contract attached to a function whose ABI contracts do not support
	ErrorUnsupportedContract = "E0403"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorSyntax:
		return "The source does not match the grammar of the textual IR"
	case ErrorUnreadableSource:
		return "The source file could not be read"
	case ErrorUnknownType:
		return "Type name is neither a builtin, a struct of the crate nor a generic parameter"
	case ErrorUnknownLocal:
		return "Local is used but not declared as a parameter or with 'let'"
	case ErrorUnknownBlock:
		return "Terminator targets a block label that does not exist"
	case ErrorDuplicateDefinition:
		return "Name is defined more than once"
	case ErrorMisplacedTerminator:
		return "Every block must end with exactly one terminator"
	case ErrorUnknownFunction:
		return "Called function is not defined in the crate"
	case ErrorInvalidSpreadArg:
		return "The spread argument must be the last parameter and have a tuple type"
	case ErrorLocalNumbering:
		return "Locals must be numbered _0, _1, ... and blocks bb0, bb1, ... without gaps"
	case ErrorTypeArguments:
		return "Number of type arguments does not match the generic parameters"
	case ErrorInvalidOperand:
		return "Operand does not fit the type it is used at"
	case ErrorRecursiveType:
		return "Struct contains itself by value and has no finite size"
	case ErrorInstantiationLimit:
		return "Instantiating generic functions exceeded the recursion or type length limit"
	case ErrorCodegenInvariant:
		return "Internal compiler error: the code generator found malformed input"
	case ErrorUnknownEntry:
		return "Requested entry function does not exist or is generic"
	case ErrorUnknownContractHelper:
		return "Contract attribute names a function that is not defined"
	case ErrorContractHelperArity:
		return "Contract helpers take the annotated function's parameters followed by its return value"
	case ErrorContractHelperReturn:
		return "Contract helpers must return bool"
	case ErrorUnsupportedContract:
		return "Contracts are not supported on variadic or spread-argument functions"
	default:
		return "Unknown error"
	}
}
