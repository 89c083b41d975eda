/*
Package sorter copies every file under a source tree into folders named after
each file's extension.

	+-------------+
	|    Plan     |
	|  (WalkDir)  |
	+------+------+
	       |
	+------+------+
	|  Dispatch   |
	| (errgroup)  |
	+------+------+
	       |
	+------+------+
	|    Copy     |
	| (per file)  |
	+-------------+

🎯 Purpose:
- Validate the source folder and create the output root
- Walk the source tree into a list of pending Tasks
- Run one Copy per Task, all at once, and wait for all of them

🔄 Flow:
1. Sort checks that the source exists and is a directory
2. Plan collects regular files (symlinks to files included)
3. Dispatch starts every Task on an errgroup with no limit
4. Copy writes <output>/<category>/<basename> and logs the outcome

⚡ Key Rules:
- The category is the text after the last dot of the base name, case kept
- Files without an extension go to "unknown"
- Same-named files in one category overwrite each other; the last rename wins
- A failed Copy is logged at ERROR and never affects other Tasks

📝 The logger is read from the context with zerolog.Ctx. A context without a
logger silences all output.
*/
package sorter
