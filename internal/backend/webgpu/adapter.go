package webgpu

import "fmt"

// adapterName builds the backend name from the adapter's reported strings.
// Drivers fill these unevenly, so each one is optional.
func adapterName(vendor, device, description string) string {
	switch {
	case device != "" && vendor != "":
		return fmt.Sprintf("WebGPU (%s %s)", vendor, device)
	case device != "":
		return fmt.Sprintf("WebGPU (%s)", device)
	case description != "":
		return fmt.Sprintf("WebGPU (%s)", description)
	default:
		return "WebGPU"
	}
}
