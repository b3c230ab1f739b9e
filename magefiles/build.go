//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"

	"github.com/spaghettifunk/glimmer/engine/renderer/shaders"
)

type Build mg.Namespace

const shaderDir = "engine/renderer/shaders/glsl"

// Compiles the testbed binary into bin/.
func (Build) Engine() error {
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "glimmer"), "."), cgoEnv, withStream()); err != nil {
		return err
	}
	return nil
}

// Validates every built-in GLSL stage with glslangValidator.
func (Build) Shaders() error {
	return validateShaders()
}

func validateShaders() error {
	stages, err := shaders.Stages()
	if err != nil {
		return err
	}
	for _, stage := range stages {
		if _, err := executeCmd("glslangValidator", withArgs(stage), withDir(shaderDir)); err != nil {
			return fmt.Errorf("shader %s: %w", stage, err)
		}
	}
	fmt.Printf("%d shader stages validated\n", len(stages))
	return nil
}
