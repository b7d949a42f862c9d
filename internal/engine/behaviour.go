package engine

// Behaviour animates the scene between frames.
type Behaviour interface {
	Start()
	Update(deltaTime float64)
}

type behaviourWrapper struct {
	behaviour Behaviour
	started   bool
}

type BehaviourManager struct {
	behaviours []behaviourWrapper
}

func NewBehaviourManager() *BehaviourManager {
	return &BehaviourManager{}
}

func (m *BehaviourManager) Add(behaviour Behaviour) {
	m.behaviours = append(m.behaviours, behaviourWrapper{behaviour: behaviour})
}

func (m *BehaviourManager) Remove(behaviour Behaviour) {
	for i := range m.behaviours {
		if m.behaviours[i].behaviour == behaviour {
			// swap with last and truncate
			m.behaviours[i] = m.behaviours[len(m.behaviours)-1]
			m.behaviours = m.behaviours[:len(m.behaviours)-1]
			return
		}
	}
}

func (m *BehaviourManager) Len() int {
	return len(m.behaviours)
}

// UpdateAll starts new behaviours and then advances every behaviour by deltaTime.
func (m *BehaviourManager) UpdateAll(deltaTime float64) {
	for i := range m.behaviours {
		if !m.behaviours[i].started {
			m.behaviours[i].behaviour.Start()
			m.behaviours[i].started = true
		}
		m.behaviours[i].behaviour.Update(deltaTime)
	}
}
