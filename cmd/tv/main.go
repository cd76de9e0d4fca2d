// tv browses directories, tree documents and tree tables in the terminal.
package main

func main() {
	execute()
}
