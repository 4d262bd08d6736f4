// Taulu - Tag-driven CloudWatch dashboards
// Tag it. See it.
package main

func main() {
	Execute()
}
