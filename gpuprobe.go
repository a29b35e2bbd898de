// gpuprobe.go - Vulkan GPU enumeration for the preview command
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import (
	"fmt"
	"sync"

	vk "github.com/goki/vulkan"
)

// GPUInfo describes one Vulkan-capable device found by ProbeGPU, enough
// for cmd/avs2play to report the devices it found at startup. The
// preview backend is chosen by avs2play's -windowed flag, not by this
// probe.
type GPUInfo struct {
	Index            int
	Name             string
	HasGraphicsQueue bool
}

var (
	vulkanProbeOnce sync.Once
	vulkanProbeErr  error
)

// ProbeGPU enumerates Vulkan-capable physical devices without creating
// a logical device or any rendering resources — it answers "is there a
// GPU cmd/avs2play could hand frames to" without paying Init's cost.
// Adapted from a Vulkan backend's initVulkan/createInstance/
// selectPhysicalDevice sequence, trimmed down to just the enumeration
// steps; this package never renders anything itself.
func ProbeGPU() ([]GPUInfo, error) {
	vulkanProbeOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			vulkanProbeErr = fmt.Errorf("avs2dec: loading vulkan library: %w", err)
			return
		}
		vulkanProbeErr = vk.Init()
	})
	if vulkanProbeErr != nil {
		return nil, vulkanProbeErr
	}

	appInfo := vk.ApplicationInfo{
		SType:         vk.StructureTypeApplicationInfo,
		PEngineName:   safeGPUProbeString("avs2dec-gpuprobe"),
		EngineVersion: vk.MakeVersion(1, 0, 0),
		ApiVersion:    vk.MakeVersion(1, 1, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return nil, fmt.Errorf("avs2dec: vkCreateInstance failed: %d", res)
	}
	vk.InitInstance(instance)
	defer vk.DestroyInstance(instance, nil)

	var deviceCount uint32
	vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)
	if deviceCount == 0 {
		return nil, nil
	}
	devices := make([]vk.PhysicalDevice, deviceCount)
	vk.EnumeratePhysicalDevices(instance, &deviceCount, devices)

	out := make([]GPUInfo, 0, deviceCount)
	for i, device := range devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(device, &props)
		props.Deref()

		var queueFamilyCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
		queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

		hasGraphics := false
		for _, qf := range queueFamilies {
			qf.Deref()
			if qf.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				hasGraphics = true
				break
			}
		}

		out = append(out, GPUInfo{
			Index:            i,
			Name:             vkDeviceName(props),
			HasGraphicsQueue: hasGraphics,
		})
	}
	return out, nil
}

func vkDeviceName(props vk.PhysicalDeviceProperties) string {
	n := 0
	for n < len(props.DeviceName) && props.DeviceName[n] != 0 {
		n++
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(props.DeviceName[i])
	}
	return string(b)
}

func safeGPUProbeString(s string) *int8 {
	b := append([]byte(s), 0)
	p := make([]int8, len(b))
	for i, c := range b {
		p[i] = int8(c)
	}
	return &p[0]
}
