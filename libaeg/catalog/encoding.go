package catalog

import (
	"github.com/2x3systems/goaeg/aeg"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// catalogState is stored under gCatalogStateKey.
type catalogState struct {
	MajorVers uint64
	MinorVers uint64
	NumGraphs uint64
}

func (state *catalogState) Marshal() []byte {
	buf := proto.NewBuffer(make([]byte, 0, 16))
	buf.EncodeVarint(state.MajorVers)
	buf.EncodeVarint(state.MinorVers)
	buf.EncodeVarint(state.NumGraphs)
	return buf.Bytes()
}

func (state *catalogState) Unmarshal(val []byte) error {
	buf := proto.NewBuffer(val)
	for _, field := range []*uint64{
		&state.MajorVers,
		&state.MinorVers,
		&state.NumGraphs,
	} {
		x, err := buf.DecodeVarint()
		if err != nil {
			return errors.Wrapf(aeg.ErrBadEncoding, "catalog state: %v", err)
		}
		*field = x
	}
	return nil
}

/*
Proof value format (protobuf wire primitives, no field tags):

	Name    string
	Premise string
	Nsteps  varint
	Nsteps * {
		Rule   string
		Npath  varint
		Npath * varint
	}
*/

func marshalProof(proof *aeg.Proof) []byte {
	buf := proto.NewBuffer(make([]byte, 0, 32+len(proof.Premise)+8*len(proof.Steps)))
	buf.EncodeStringBytes(proof.Name)
	buf.EncodeStringBytes(proof.Premise)
	buf.EncodeVarint(uint64(len(proof.Steps)))
	for _, step := range proof.Steps {
		buf.EncodeStringBytes(string(step.Rule))
		buf.EncodeVarint(uint64(len(step.Path)))
		for _, idx := range step.Path {
			buf.EncodeVarint(uint64(idx))
		}
	}
	return buf.Bytes()
}

func unmarshalProof(val []byte) (*aeg.Proof, error) {
	buf := proto.NewBuffer(val)
	proof := &aeg.Proof{}

	// Each step or path index takes at least one byte, bounding any count by len(val).
	readCount := func() (int, error) {
		n, err := buf.DecodeVarint()
		if err == nil && n > uint64(len(val)) {
			err = errors.Errorf("count %d exceeds value length", n)
		}
		return int(n), err
	}

	var err error
	if proof.Name, err = buf.DecodeStringBytes(); err != nil {
		return nil, errors.Wrapf(aeg.ErrBadEncoding, "name: %v", err)
	}
	if proof.Premise, err = buf.DecodeStringBytes(); err != nil {
		return nil, errors.Wrapf(aeg.ErrBadEncoding, "premise: %v", err)
	}

	numSteps, err := readCount()
	if err != nil {
		return nil, errors.Wrapf(aeg.ErrBadEncoding, "steps: %v", err)
	}
	if numSteps > 0 {
		proof.Steps = make([]aeg.Step, numSteps)
	}

	for i := range proof.Steps {
		step := &proof.Steps[i]

		rule, err := buf.DecodeStringBytes()
		if err != nil {
			return nil, errors.Wrapf(aeg.ErrBadEncoding, "step %d rule: %v", i+1, err)
		}
		if step.Rule, err = aeg.ParseRule(rule); err != nil {
			return nil, errors.Wrapf(aeg.ErrBadEncoding, "step %d: %v", i+1, err)
		}

		pathLen, err := readCount()
		if err != nil {
			return nil, errors.Wrapf(aeg.ErrBadEncoding, "step %d path: %v", i+1, err)
		}
		step.Path = make(aeg.Path, pathLen)
		for j := range step.Path {
			idx, err := buf.DecodeVarint()
			if err != nil {
				return nil, errors.Wrapf(aeg.ErrBadEncoding, "step %d path: %v", i+1, err)
			}
			step.Path[j] = int(idx)
		}
	}

	return proof, nil
}
