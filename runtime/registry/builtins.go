package registry

import "github.com/aledsdavies/callbind/core/types"

// Builtins returns fresh signatures for the default command set
func Builtins() []*types.Signature {
	return []*types.Signature{
		types.NewSignature("ls").
			Switch("all", "a", "show hidden files").
			Switch("long", "l", "show all available columns").
			Switch("full-paths", "f", "display paths as absolute").
			OptionalPositional("pattern", types.ShapePattern, "the glob pattern to use"),

		types.NewSignature("cd").
			OptionalPositional("directory", types.ShapePath, "the directory to change to"),

		types.NewSignature("cp").
			Switch("recursive", "r", "copy recursively through subdirectories").
			Required("src", types.ShapePattern, "the place to copy from").
			Required("dst", types.ShapePath, "the place to copy to"),

		types.NewSignature("mv").
			Required("source", types.ShapePattern, "the location to move files/directories from").
			Required("destination", types.ShapePath, "the location to move files/directories to"),

		types.NewSignature("rm").
			Switch("recursive", "r", "delete subdirectories recursively").
			Switch("trash", "t", "move to the platform's trash instead of deleting").
			RestPositional("paths", types.ShapePattern, "the paths to remove"),

		types.NewSignature("mkdir").
			Switch("show-created-paths", "s", "show the path(s) created").
			RestPositional("rest", types.ShapePath, "the name(s) of the path(s) to create"),

		types.NewSignature("echo").
			RestPositional("rest", types.ShapeAny, "the values to echo"),

		types.NewSignature("open").
			Switch("raw", "r", "load content as a string instead of a table").
			Required("path", types.ShapePath, "the file path to load values from"),

		types.NewSignature("save").
			Switch("raw", "r", "treat values as-is rather than auto-converting").
			Switch("append", "a", "append input to the end of the file").
			OptionalPositional("path", types.ShapePath, "the path to save contents to"),

		types.NewSignature("where").
			Required("condition", types.ShapeBlock, "the condition that must match"),

		types.NewSignature("sort-by").
			Switch("reverse", "r", "sort in reverse order").
			RestPositional("columns", types.ShapeString, "the column(s) to sort by"),

		types.NewSignature("first").
			OptionalPositional("rows", types.ShapeInt, "starting from the front, the number of rows to return"),

		types.NewSignature("skip").
			OptionalPositional("rows", types.ShapeInt, "how many rows to skip"),

		types.NewSignature("get").
			Required("member", types.ShapeString, "the path to the data to get").
			RestPositional("rest", types.ShapeString, "additional members"),

		types.NewSignature("pick").
			RestPositional("rest", types.ShapeString, "the columns to select from the table"),

		types.NewSignature("reject").
			RestPositional("rest", types.ShapeString, "the names of columns to remove from the table"),

		types.NewSignature("each").
			OptionalNamed("parallel", "p", types.ShapeInt, "run the block on up to this many rows at once").
			Required("block", types.ShapeBlock, "the block to run on each row"),

		types.NewSignature("help").
			OptionalNamed("find", "f", types.ShapeString, "string to find in command usage").
			RestPositional("rest", types.ShapeAny, "the name of the command to get help on"),
	}
}
