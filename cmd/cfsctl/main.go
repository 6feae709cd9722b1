// Command cfsctl creates, inspects and edits cluster store files.
package main

func main() {
	execute()
}
