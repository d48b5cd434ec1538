// Package contracts holds the parameterized Solidity templates and the
// random instantiation of their placeholders.
package contracts

// Templates are Solidity sources with {placeholder} fields. Every placeholder
// is replaced with a randomly generated identifier before compilation; the
// {contract_name} placeholder doubles as the compiled contract's name.
var Templates = []string{
	`// SPDX-License-Identifier: MIT
pragma solidity ^0.8.2;

contract {contract_name} {
    uint256 private {storage_name};

    function {setter_name}(uint256 value) public {
        {storage_name} = value;
    }

    function {getter_name}() public view returns (uint256) {
        return {storage_name};
    }
}
`,
	`// SPDX-License-Identifier: MIT
pragma solidity ^0.8.2;

contract {contract_name} {
    string public {text_name};
    address public {owner_name};

    constructor() {
        {owner_name} = msg.sender;
    }

    function {update_name}(string memory value) public {
        require(msg.sender == {owner_name});
        {text_name} = value;
    }
}
`,
	`// SPDX-License-Identifier: MIT
pragma solidity ^0.8.2;

contract {contract_name} {
    mapping(address => uint256) private {map_name};

    event {event_name}(address indexed account, uint256 value);

    function {deposit_name}() public payable {
        {map_name}[msg.sender] += msg.value;
        emit {event_name}(msg.sender, msg.value);
    }

    function {balance_name}(address account) public view returns (uint256) {
        return {map_name}[account];
    }
}
`,
	`// SPDX-License-Identifier: MIT
pragma solidity ^0.8.2;

contract {contract_name} {
    uint256 public {counter_name};

    function {increment_name}() public {
        {counter_name} += 1;
    }

    function {reset_name}() public {
        {counter_name} = 0;
    }
}
`,
	`// SPDX-License-Identifier: MIT
pragma solidity ^0.8.2;

contract {contract_name} {
    uint256[] private {list_name};

    function {push_name}(uint256 value) public {
        {list_name}.push(value);
    }

    function {length_name}() public view returns (uint256) {
        return {list_name}.length;
    }
}
`,
}
